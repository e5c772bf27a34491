// Package window implements the window record store and the z-order
// allocator. Both are plain data structures; the desk package owns them
// and provides locking and the lifecycle rules built on top.
package window
