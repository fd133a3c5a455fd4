package fgdb

import (
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatchSeesRegistration(t *testing.T) {
	st := freshStore(t)
	w, err := st.Watch()
	tassert(t, err == nil, "watch: %v", err)
	defer w.Close()

	folder := mkFolder(t, t.TempDir(), "x", map[string]string{PayloadName: "1\n"})
	code, err := st.AddDataBlock(folder)
	tassert(t, err == nil, "add: %v", err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-w.Events:
			if ev.Op&fsnotify.Create != 0 && strings.Contains(ev.Name, code) {
				return
			}
		case err := <-w.Errors:
			t.Fatal(err)
		case <-deadline:
			t.Fatalf("no create event for block %s", Head(code))
		}
	}
}
