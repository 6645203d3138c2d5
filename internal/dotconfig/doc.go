// Package dotconfig holds the data model for one resolved formatter
// configuration scope (Node), the raw HCL option-set parser, and the
// ConfigSource boundary through which configuration text is obtained from
// disk or from an in-memory artifact collection.
package dotconfig
