// Package io groups input and output concerns of obsail.
//
// Subpackages:
//   - configmanager: configuration loading, validation and schema generation
package io
