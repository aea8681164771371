package systems

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spaghettifunk/deimos/engine/core"
)

func TestNewJobSystemValidation(t *testing.T) {
	if _, err := NewJobSystem(0, 1); !errors.Is(err, ErrNoWorkers) {
		t.Fatalf("NewJobSystem(0, 1) = %v", err)
	}
	if _, err := NewJobSystem(1, -1); !errors.Is(err, ErrNegativeChannelSize) {
		t.Fatalf("NewJobSystem(1, -1) = %v", err)
	}
}

func TestJobSystemRunAllKeepsOrder(t *testing.T) {
	js, err := NewJobSystem(4, 2)
	if err != nil {
		t.Fatalf("NewJobSystem: %v", err)
	}
	defer js.Shutdown()

	failure := errors.New("boom")
	var tasks []JobTask
	for i := 0; i < 20; i++ {
		tasks = append(tasks, JobTask{
			Name: fmt.Sprintf("job-%d", i),
			Run: func() (interface{}, error) {
				if i == 7 {
					return nil, failure
				}
				return i * i, nil
			},
		})
	}

	results := js.RunAll(tasks)
	if len(results) != len(tasks) {
		t.Fatalf("got %d results, want %d", len(results), len(tasks))
	}
	for i, r := range results {
		if r.Name != tasks[i].Name {
			t.Fatalf("result %d is %q", i, r.Name)
		}
		if i == 7 {
			if !errors.Is(r.Err, failure) {
				t.Fatalf("result 7 err = %v", r.Err)
			}
			continue
		}
		if r.Err != nil || r.Value.(int) != i*i {
			t.Fatalf("result %d = %+v", i, r)
		}
	}
}

func TestJobSystemShutdownTwice(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	if err != nil {
		t.Fatalf("NewJobSystem: %v", err)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatal(err)
	}
}

func TestJobSystemLeavesFailureReportingToCaller(t *testing.T) {
	var logged bytes.Buffer
	core.SetLogOutput(&logged)
	defer core.SetLogOutput(nil)

	js, err := NewJobSystem(2, 1)
	if err != nil {
		t.Fatalf("NewJobSystem: %v", err)
	}
	defer js.Shutdown()

	results := js.RunAll([]JobTask{{
		Name: "broken",
		Run:  func() (interface{}, error) { return nil, errors.New("cannot parse") },
	}})
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("results = %+v", results)
	}
	if logged.Len() != 0 {
		t.Fatalf("worker logged the failure: %q", logged.String())
	}
}
