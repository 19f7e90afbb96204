package logger

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

func capture(c *Collapser) (*[]string, *sync.Mutex) {
	var (
		mu    sync.Mutex
		lines []string
	)
	c.printf = func(format string, args ...any) {
		mu.Lock()
		lines = append(lines, fmt.Sprintf(format, args...))
		mu.Unlock()
	}
	return &lines, &mu
}

func TestCollapser_RepeatsFoldIntoCount(t *testing.T) {
	c := NewCollapser(10 * time.Millisecond)
	lines, mu := capture(c)

	for i := 0; i < 5; i++ {
		c.Log("cache hit for %s", "whey")
	}
	c.Log("escalating to tier %s", "fallback")

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	want := []string{"cache hit for whey (5)", "escalating to tier fallback"}
	if !reflect.DeepEqual(*lines, want) {
		t.Errorf("lines = %v, want %v", *lines, want)
	}
}

func TestCollapser_SingleLineNoCount(t *testing.T) {
	c := NewCollapser(10 * time.Millisecond)
	lines, mu := capture(c)

	c.Log("one off")
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(*lines) != 1 || (*lines)[0] != "one off" {
		t.Errorf("lines = %v", *lines)
	}
}

func TestCollapser_RunRestartsAfterFlush(t *testing.T) {
	c := NewCollapser(10 * time.Millisecond)
	lines, mu := capture(c)

	c.Log("hit")
	time.Sleep(50 * time.Millisecond)
	c.Log("hit")
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	want := []string{"hit", "hit"}
	if !reflect.DeepEqual(*lines, want) {
		t.Errorf("lines = %v, want %v", *lines, want)
	}
}
