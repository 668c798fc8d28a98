package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/palmares/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcher(t *testing.T) {
	_ = logger.Init()

	Convey("Given a watched dataset file", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		dir := t.TempDir()
		path := filepath.Join(dir, "data.json")
		So(os.WriteFile(path, []byte(`{}`), 0o600), ShouldBeNil)

		var calls atomic.Int32
		w, err := New(path, func(context.Context) error {
			calls.Add(1)
			return nil
		}, WithDebounce(50*time.Millisecond))
		So(err, ShouldBeNil)
		So(w.Start(ctx), ShouldBeNil)
		defer func() { _ = w.Stop() }()

		Convey("When the file is written several times quickly", func() {
			for i := 0; i < 5; i++ {
				So(os.WriteFile(path, []byte(`{"meta": {}}`), 0o600), ShouldBeNil)
			}

			Convey("Then the burst triggers a single reload", func() {
				So(waitFor(func() bool { return calls.Load() >= 1 }, 3*time.Second), ShouldBeTrue)
				time.Sleep(200 * time.Millisecond)
				So(calls.Load(), ShouldEqual, 1)
				So(w.Reloads(), ShouldEqual, 1)
			})
		})

		Convey("When the file is replaced by rename", func() {
			tmp := filepath.Join(dir, "data.json.tmp")
			So(os.WriteFile(tmp, []byte(`{}`), 0o600), ShouldBeNil)
			So(os.Rename(tmp, path), ShouldBeNil)

			Convey("Then a reload is triggered", func() {
				So(waitFor(func() bool { return calls.Load() >= 1 }, 3*time.Second), ShouldBeTrue)
			})
		})

		Convey("When another file of the directory changes", func() {
			So(os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o600), ShouldBeNil)

			Convey("Then nothing is reloaded", func() {
				time.Sleep(200 * time.Millisecond)
				So(calls.Load(), ShouldEqual, 0)
			})
		})

		Convey("When started twice", func() {
			err := w.Start(ctx)

			Convey("Then the second start is refused", func() {
				So(errors.Is(err, ErrAlreadyStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given a reload that fails", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "data.json")
		So(os.WriteFile(path, []byte(`{}`), 0o600), ShouldBeNil)

		var calls atomic.Int32
		w, err := New(path, func(context.Context) error {
			calls.Add(1)
			return errors.New("malformed")
		}, WithDebounce(20*time.Millisecond))
		So(err, ShouldBeNil)
		So(w.Start(context.Background()), ShouldBeNil)

		Convey("Then the watcher keeps running", func() {
			So(os.WriteFile(path, []byte(`x`), 0o600), ShouldBeNil)
			So(waitFor(func() bool { return calls.Load() >= 1 }, 3*time.Second), ShouldBeTrue)
			So(os.WriteFile(path, []byte(`y`), 0o600), ShouldBeNil)
			So(waitFor(func() bool { return calls.Load() >= 2 }, 3*time.Second), ShouldBeTrue)
			So(w.Stop(), ShouldBeNil)
			So(w.Stop(), ShouldBeNil)
		})
	})

	Convey("Given a missing directory", t, func() {
		w, err := New(filepath.Join(t.TempDir(), "nope", "data.json"), func(context.Context) error { return nil })
		So(err, ShouldBeNil)

		Convey("Then Start fails", func() {
			So(w.Start(context.Background()), ShouldNotBeNil)
		})
	})
}
