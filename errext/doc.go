// Package errext contains extensions for normal Go errors that are used in
// srcmapaudit, mostly for attaching exit codes and user hints to them.
package errext
