package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cafecloud/internal/engine"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCallback MsgKind = iota
	MsgEngineUpdate
	MsgLoopClosed
)

// callbackMsg is the constructor for [MsgCallback]
func callbackMsg(fn func()) Msg {
	return Msg{kind: MsgCallback, data: fn}
}

// engineUpdateMsg is the constructor for [MsgEngineUpdate]
func engineUpdateMsg(update engine.Update) Msg {
	return Msg{kind: MsgEngineUpdate, data: update}
}

// loopClosedMsg is the constructor for [MsgLoopClosed]
func loopClosedMsg() Msg {
	return Msg{kind: MsgLoopClosed}
}
