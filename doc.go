// Package varshape provides typed variant views over a single shared,
// reactive state record whose shape is a tagged union.
//
// The core code is in packages 'pattern', 'store', 'guard', and
// 'variant', and a command-line tool is in 'cmd'.
//
// See https://github.com/Comcast/varshape/blob/master/README.md for more.
package varshape
