// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package debug implements the command front-end of the interactive
// debugger: breakpoint management (brk) and stepping (next).
//
// # Breakpoint Targets
//
// Resolve turns a typed target into a Specifier. Forms are tried in order:
//
//	14                   line 14 of the current file (needs a paused frame)
//	app/models/user.rb:15
//	Foo#bar, Foo.bar     method; "#bar" is qualified with the frame's class
//
// Tokens after the target that start with "if" form the condition.
//
// # Dispatch
//
// ParseFlags reads the brk options and Dispatch maps them to exactly one
// Intent. Options are checked in declaration order (condition, show, delete,
// disable, enable, disable-all, delete-all); with no option the command
// creates a breakpoint from its arguments, or lists all breakpoints when
// there are none. BreakCommand executes the intent against a
// breakpoint.Store. Nothing is written to the store unless the frame check
// and target resolution succeed.
//
// # Shell
//
// Shell reads commands whenever the Engine reports EventPaused. next,
// continue and abort send a Command to the engine and end the read loop
// until the next pause.
//
// # Example Usage
//
//	session, _ := replay.NewSession(trace, store, logger)
//	shell := debug.NewShell(session, store, debug.ShellConfig{})
//	go session.Run(ctx)
//	err := shell.Run(ctx)
package debug
