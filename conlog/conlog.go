// SPDX-License-Identifier: GPL-2.0-or-later

// Package conlog routes user facing console lines. Without a sink they go to
// the standard logger.
package conlog

import (
	"log"
	"sync"
)

var (
	mu sync.RWMutex
	p  = log.Printf
	dp func(string, ...any)
)

func SetPrintf(f func(string, ...any)) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		f = log.Printf
	}
	p = f
}

// SetDPrintf enables developer output.
func SetDPrintf(f func(string, ...any)) {
	mu.Lock()
	defer mu.Unlock()
	dp = f
}

func Printf(format string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	p(format, v...)
}

// DPrintf only prints when developer output is enabled.
func DPrintf(format string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if dp != nil {
		dp(format, v...)
	}
}
