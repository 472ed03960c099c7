//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package main

func terminalWidth(int) (int, bool) {
	return 0, false
}
