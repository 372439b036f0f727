// Package textutil sanitizes heading titles into names that are safe to use
// as file and directory names on every platform the output may land on.
package textutil
