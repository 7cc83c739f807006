/*
 * Copyright 2025 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package xlog is the small leveled logger the engines use to report
// conditions a caller can't otherwise observe: a reaper goroutine exiting,
// an io_uring_enter submission call failing. It is not meant as a general
// application logging facade — callers that want structured logging
// elsewhere can still set their own io.Writer via SetDefault.
package xlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type Logger struct {
	mu     sync.Mutex
	logger *log.Logger
	level  Level
}

func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{logger: log.New(out, "", log.LstdFlags), level: level}
}

var (
	defMu  sync.RWMutex
	defLog *Logger
)

func Default() *Logger {
	defMu.RLock()
	l := defLog
	defMu.RUnlock()
	if l != nil {
		return l
	}
	defMu.Lock()
	defer defMu.Unlock()
	if defLog == nil {
		defLog = New(LevelInfo, os.Stderr)
	}
	return defLog
}

func SetDefault(l *Logger) {
	defMu.Lock()
	defLog = l
	defMu.Unlock()
}

func (l *Logger) logf(lvl Level, tag, format string, args ...any) {
	if lvl < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Printf("%s kio: %s", tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, "[DEBUG]", format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, "[INFO]", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, "[WARN]", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, "[ERROR]", format, args...) }

func Debugf(format string, args ...any) { Default().Debugf(format, args...) }
func Infof(format string, args ...any)  { Default().Infof(format, args...) }
func Warnf(format string, args ...any)  { Default().Warnf(format, args...) }
func Errorf(format string, args ...any) { Default().Errorf(format, args...) }
