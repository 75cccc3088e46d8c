package helpers

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jsprint/jsprint/internal/logger"
)

// Timer records nested phase durations ("parse", "print", ...). A nil
// *Timer is valid and records nothing, so callers can pass one around
// unconditionally.
type Timer struct {
	data  []timerData
	mutex sync.Mutex
}

type timerData struct {
	time  time.Time
	name  string
	isEnd bool
}

func (t *Timer) Begin(name string) {
	if t != nil {
		t.mutex.Lock()
		defer t.mutex.Unlock()
		t.data = append(t.data, timerData{name: name, time: time.Now()})
	}
}

func (t *Timer) End(name string) {
	if t != nil {
		t.mutex.Lock()
		defer t.mutex.Unlock()
		t.data = append(t.data, timerData{name: name, time: time.Now(), isEnd: true})
	}
}

// Lines renders the recorded phases as indented "name: 12ms" lines in the
// order the phases began.
func (t *Timer) Lines() []string {
	if t == nil {
		return nil
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	type pair struct {
		timerData
		index int
	}

	var lines []string
	var stack []pair

	for _, item := range t.data {
		if !item.isEnd {
			stack = append(stack, pair{timerData: item, index: len(lines)})
			lines = append(lines, "")
			continue
		}
		last := len(stack) - 1
		top := stack[last]
		stack = stack[:last]
		if item.name != top.name {
			panic("Internal error")
		}
		lines[top.index] = fmt.Sprintf("%s%s: %dms",
			strings.Repeat("  ", len(stack)),
			top.name,
			item.time.Sub(top.time).Milliseconds())
	}

	return lines
}

func (t *Timer) Log(log logger.Log) {
	if lines := t.Lines(); len(lines) > 0 {
		log.AddMsg(logger.Msg{
			Kind: logger.Debug,
			Text: "Timing information:\n" + strings.Join(lines, "\n"),
		})
	}
}
