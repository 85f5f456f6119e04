// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"fmt"

	"github.com/staranto/menuctl/internal/menu"
)

// Level grades a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a message meant for the user about one action.
type Notice struct {
	Level    Level
	Op       string
	Category menu.Category
	Message  string
	Err      error
}

func (n Notice) String() string {
	return fmt.Sprintf("%s: %s", n.Op, n.Message)
}

// Notifier receives notices as they happen.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// ChanNotifier delivers notices on C, dropping them when C is full so a slow
// reader never stalls an action.
type ChanNotifier struct {
	C chan Notice
}

// NewChanNotifier returns a ChanNotifier buffering up to size notices.
func NewChanNotifier(size int) *ChanNotifier {
	return &ChanNotifier{C: make(chan Notice, size)}
}

func (n *ChanNotifier) Notify(notice Notice) {
	select {
	case n.C <- notice:
	default:
	}
}
