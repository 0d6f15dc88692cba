package testutil

import (
	"fmt"
	"strings"
)

// Level identifies which UI method produced a message.
type Level string

const (
	LevelLog   Level = "log"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Message is one recorded UI message.
type Message struct {
	Level Level
	Text  string
}

// ProgressEvent is one recorded progress report.
type ProgressEvent struct {
	Fraction float64
	Label    string
}

// RecordingUI records every message and progress report it receives.
type RecordingUI struct {
	Messages       []Message
	ProgressEvents []ProgressEvent
}

// NewRecordingUI creates an empty recording UI.
func NewRecordingUI() *RecordingUI {
	return &RecordingUI{}
}

func (u *RecordingUI) Log(format string, args ...interface{}) {
	u.record(LevelLog, format, args...)
}

func (u *RecordingUI) Warn(format string, args ...interface{}) {
	u.record(LevelWarn, format, args...)
}

func (u *RecordingUI) Error(format string, args ...interface{}) {
	u.record(LevelError, format, args...)
}

func (u *RecordingUI) Progress(fraction float64, label string) {
	u.ProgressEvents = append(u.ProgressEvents, ProgressEvent{Fraction: fraction, Label: label})
}

func (u *RecordingUI) record(level Level, format string, args ...interface{}) {
	u.Messages = append(u.Messages, Message{Level: level, Text: fmt.Sprintf(format, args...)})
}

// Texts returns the text of every message at level, in order.
func (u *RecordingUI) Texts(level Level) []string {
	var texts []string
	for _, m := range u.Messages {
		if m.Level == level {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

// Warnings returns the recorded warnings.
func (u *RecordingUI) Warnings() []string {
	return u.Texts(LevelWarn)
}

// HasMessage reports whether any message at level contains substr.
func (u *RecordingUI) HasMessage(level Level, substr string) bool {
	for _, text := range u.Texts(level) {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}
