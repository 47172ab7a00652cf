package orchestrator

import (
	"time"

	"github.com/maastricht-university/podcast-pipeline/audio"
	"github.com/maastricht-university/podcast-pipeline/script"
	"github.com/maastricht-university/podcast-pipeline/speakers"
)

// State is the position of a run in its lifecycle:
//
//	Idle -> Parsing -> Synthesizing -> Assembling -> Encoding -> Done
//
// with Failed reachable from every non-terminal state.
type State int

const (
	Idle State = iota
	Parsing
	Synthesizing
	Assembling
	Encoding
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Parsing:
		return "parsing"
	case Synthesizing:
		return "synthesizing"
	case Assembling:
		return "assembling"
	case Encoding:
		return "encoding"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == Done || s == Failed }

// Progress is reported on every state change and after every rendered line.
type Progress struct {
	RunID string
	State State
	// Line is the number of lines rendered so far, Total the number parsed.
	Line  int
	Total int
}

// Result is everything a successful run produced.
type Result struct {
	RunID    string
	File     *audio.EncodedFile
	Lines    []script.Line
	Speakers []speakers.Speaker
	// Duration is the advisory sum of segment durations.
	Duration time.Duration
	State    State
}

// Scenario is a generated dialogue script.
type Scenario struct {
	Title    string
	Keywords string
	Script   string
	// Speakers are the bracketed names found in Script, in order.
	Speakers []string
}
