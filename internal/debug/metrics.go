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

package debug

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	pkgerrors "github.com/tombee/brk/pkg/errors"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brk_commands_total",
			Help: "Debugger commands handled, by command, action and outcome",
		},
		[]string{"command", "action", "status"},
	)

	stepLines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brk_step_lines_total",
		Help: "Total lines requested by step commands",
	})
)

// recordCommand counts one command invocation. status is "ok" or the
// error's category.
func recordCommand(command, action string, err error) {
	commandsTotal.WithLabelValues(command, action, statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err == nil {
		return "ok"
	}
	var classified pkgerrors.ErrorClassifier
	if pkgerrors.As(err, &classified) {
		return classified.ErrorType()
	}
	if pkgerrors.IsNotFound(err) {
		return "not_found"
	}
	return "error"
}
