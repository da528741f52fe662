package framework

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHooksRunInOrderAndCollectFailures(t *testing.T) {
	hooks := NewHooks()
	var order []string
	hooks.OnPreScan("ext", func(ctx context.Context, req *ScanRequest) error {
		order = append(order, "ext")
		req.IgnoreExts = append(req.IgnoreExts, ".txt")
		return nil
	})
	hooks.OnPreScan("boom", func(ctx context.Context, req *ScanRequest) error {
		panic("kaboom")
	})
	hooks.OnPreScan("last", func(ctx context.Context, req *ScanRequest) error {
		order = append(order, "last")
		return nil
	})
	hooks.OnPreScan("nil", nil)
	hooks.OnPostScan("annotate", func(ctx context.Context, req ScanRequest, result *ScanResult) error {
		result.Items[0].Annotate("checked", "yes")
		return errors.New("partial")
	})

	require.Equal(t, []string{"pre:ext", "pre:boom", "pre:last", "post:annotate"}, hooks.Names())

	req := &ScanRequest{Root: "/mods"}
	errs := hooks.RunPreScan(context.Background(), req)
	require.Equal(t, []string{"hook boom: panic: kaboom"}, errs)
	require.Equal(t, []string{"ext", "last"}, order)
	require.Equal(t, []string{".txt"}, req.IgnoreExts)

	result := &ScanResult{Items: []*FileItem{{Name: "a.package"}}}
	errs = hooks.RunPostScan(context.Background(), *req, result)
	require.Equal(t, []string{"hook annotate: partial"}, errs)
	require.Equal(t, "yes", result.Items[0].Annotation("checked"))
}

func TestNilHooksRunNothing(t *testing.T) {
	var hooks *Hooks
	require.Nil(t, hooks.Names())
	require.Nil(t, hooks.RunPreScan(context.Background(), &ScanRequest{}))
	require.Nil(t, hooks.RunPostScan(context.Background(), ScanRequest{}, &ScanResult{}))
}

type recordingTelemetry struct {
	events []Event
}

func (r *recordingTelemetry) Emit(event Event) {
	r.events = append(r.events, event)
}

func TestTelemetrySinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	file, err := NewJSONFileTelemetry(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	rec := &recordingTelemetry{}
	sink := MultiplexTelemetry{Sinks: []Telemetry{
		rec,
		nil,
		file,
		LoggerTelemetry{Logger: log.New(&buf, "", 0)},
	}}

	Emit(nil, Event{Type: EventScanStart})
	Emit(sink, Event{Type: EventFileScanned, Path: "a.package", Status: "scanned"})
	Emit(sink, Event{Type: EventScanFinish, Message: "done"})
	require.NoError(t, file.Close())
	require.NoError(t, file.Close())

	require.Len(t, rec.events, 2)
	require.False(t, rec.events[0].Timestamp.IsZero())

	// per-file events stay out of the non-verbose log
	require.NotContains(t, buf.String(), "a.package")
	require.Contains(t, buf.String(), "[scan_finish]")
	require.Contains(t, buf.String(), "msg=done")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var types []EventType
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var event Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &event))
		types = append(types, event.Type)
	}
	require.Equal(t, []EventType{EventFileScanned, EventScanFinish}, types)
}
