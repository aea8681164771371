package renderer

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/renderer/glconst"
	"github.com/spaghettifunk/deimos/engine/renderer/headless"
	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

// collectReporter keeps reported errors instead of logging them.
type collectReporter struct {
	errs []*core.BackendError
}

func (r *collectReporter) ReportBackendError(err *core.BackendError) {
	r.errs = append(r.errs, err)
}

func newTestBuffer(t *testing.T) (*BufferObject, *headless.Context, *collectReporter) {
	t.Helper()
	ctx := headless.New()
	rep := &collectReporter{}
	return NewBufferObject(ctx, WithReporter(rep)), ctx, rep
}

func rawData(n int) metadata.BufferData {
	return metadata.BufferData{Bytes: make([]byte, n)}
}

func TestCreateEnablesClientArrays(t *testing.T) {
	b, ctx, _ := newTestBuffer(t)
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !b.Created() || b.Handle() == 0 {
		t.Fatalf("Created() = %v, Handle() = %d", b.Created(), b.Handle())
	}
	if !ctx.Enabled(glconst.VERTEX_ARRAY) || !ctx.Enabled(glconst.TEXTURE_COORD_ARRAY) {
		t.Fatal("vertex and texture coordinate arrays should be enabled")
	}
	if ctx.Enabled(glconst.COLOR_ARRAY) {
		t.Fatal("color array should stay disabled")
	}
}

func TestCreateTwiceDoesNotLeak(t *testing.T) {
	b, ctx, _ := newTestBuffer(t)
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	first := b.Handle()
	if err := b.Create(); err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if ctx.LiveBuffers() != 1 {
		t.Fatalf("LiveBuffers() = %d, want 1", ctx.LiveBuffers())
	}
	deletes := ctx.CallsNamed("DeleteBuffer")
	if len(deletes) != 1 || deletes[0].Args[0] != int64(first) {
		t.Fatalf("DeleteBuffer calls = %v, want one for handle %d", deletes, first)
	}
	// The delete must come before the second GenBuffer.
	var order []string
	for _, c := range ctx.Calls() {
		if c.Name == "GenBuffer" || c.Name == "DeleteBuffer" {
			order = append(order, c.Name)
		}
	}
	if len(order) != 3 || order[1] != "DeleteBuffer" {
		t.Fatalf("call order = %v", order)
	}
}

func TestOperationsOnUncreatedBufferAreNoOps(t *testing.T) {
	cfg := metadata.AttributeConfig{ComponentCount: 3, DataType: metadata.DATA_TYPE_FLOAT}
	tests := []struct {
		name string
		op   func(b *BufferObject) error
	}{
		{"destroy", func(b *BufferObject) error { return b.Destroy() }},
		{"bind", func(b *BufferObject) error { return b.Bind() }},
		{"upload", func(b *BufferObject) error { return b.Upload(rawData(12), metadata.BUFFER_USAGE_STATIC) }},
		{"vertex stream", func(b *BufferObject) error { return b.ConfigureVertexStream(cfg) }},
		{"color stream", func(b *BufferObject) error { return b.ConfigureColorStream(cfg) }},
		{"texture stream", func(b *BufferObject) error { return b.ConfigureTextureStream(cfg) }},
		{"draw", func(b *BufferObject) error { return b.Draw(metadata.PRIMITIVE_TRIANGLES) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ctx, _ := newTestBuffer(t)
			if err := tt.op(b); !errors.Is(err, core.ErrNotCreated) {
				t.Fatalf("error = %v, want ErrNotCreated", err)
			}
			if calls := ctx.Calls(); len(calls) != 0 {
				t.Fatalf("backend calls issued: %v", calls)
			}
			if b.ElementCount() != 0 {
				t.Fatalf("ElementCount() = %d", b.ElementCount())
			}
		})
	}
}

func TestUnbindAlwaysClearsBinding(t *testing.T) {
	b, ctx, _ := newTestBuffer(t)
	if err := b.Unbind(); err != nil {
		t.Fatalf("Unbind on uncreated buffer: %v", err)
	}
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.Bind(); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if ctx.Bound() != b.Handle() {
		t.Fatalf("Bound() = %d, want %d", ctx.Bound(), b.Handle())
	}
	if err := b.Unbind(); err != nil {
		t.Fatalf("Unbind: %v", err)
	}
	if ctx.Bound() != 0 {
		t.Fatalf("Bound() = %d after Unbind", ctx.Bound())
	}
}

func TestUploadFirstSizeWins(t *testing.T) {
	b, ctx, _ := newTestBuffer(t)
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.Upload(rawData(24), metadata.BUFFER_USAGE_DYNAMIC); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := b.Upload(rawData(48), metadata.BUFFER_USAGE_STREAM); err != nil {
		t.Fatalf("second Upload: %v", err)
	}
	if b.ElementCount() != 24 {
		t.Fatalf("ElementCount() = %d, want 24", b.ElementCount())
	}
	if got := len(ctx.Data(b.Handle())); got != 48 {
		t.Fatalf("GPU holds %d bytes, want 48", got)
	}
	if ctx.Usage(b.Handle()) != glconst.STREAM_DRAW {
		t.Fatalf("usage = 0x%X, want STREAM_DRAW", ctx.Usage(b.Handle()))
	}
}

func TestUploadEmptyIsSkipped(t *testing.T) {
	b, ctx, _ := newTestBuffer(t)
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ctx.ResetCalls()
	err := b.Upload(metadata.BufferData{}, metadata.BUFFER_USAGE_STATIC)
	if !errors.Is(err, core.ErrEmptyData) || !IsPrecondition(err) {
		t.Fatalf("error = %v, want ErrEmptyData", err)
	}
	if len(ctx.Calls()) != 0 || b.ElementCount() != 0 {
		t.Fatalf("calls = %v, ElementCount() = %d", ctx.Calls(), b.ElementCount())
	}
}

func TestUploadUnknownUsageIsRejected(t *testing.T) {
	b, ctx, rep := newTestBuffer(t)
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ctx.ResetCalls()
	err := b.Upload(rawData(12), metadata.BufferUsage(99))
	if !errors.Is(err, core.ErrInvalidArgument) || !IsPrecondition(err) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
	if len(ctx.Calls()) != 0 || b.ElementCount() != 0 || len(rep.errs) != 0 {
		t.Fatalf("calls = %v, ElementCount() = %d, reported = %v", ctx.Calls(), b.ElementCount(), rep.errs)
	}

	// the rejected upload must not have fixed the draw count
	if err := b.Upload(rawData(6), metadata.BUFFER_USAGE_STATIC); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if b.ElementCount() != 6 {
		t.Fatalf("ElementCount() = %d, want 6", b.ElementCount())
	}
}

func TestDestroyResetsState(t *testing.T) {
	b, ctx, _ := newTestBuffer(t)
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.Upload(rawData(9), metadata.BUFFER_USAGE_STATIC); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := b.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if b.Created() || b.ElementCount() != 0 || ctx.LiveBuffers() != 0 {
		t.Fatalf("Created() = %v, ElementCount() = %d, LiveBuffers() = %d", b.Created(), b.ElementCount(), ctx.LiveBuffers())
	}
	// A new upload after recreation sets the count again.
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.Upload(rawData(5), metadata.BUFFER_USAGE_STATIC); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if b.ElementCount() != 5 {
		t.Fatalf("ElementCount() = %d, want 5", b.ElementCount())
	}
}

func TestDrawDefaultsAndRanges(t *testing.T) {
	b, ctx, _ := newTestBuffer(t)
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.Upload(metadata.BufferData{Bytes: make([]byte, 7*36), ElementSize: 36}, metadata.BUFFER_USAGE_STATIC); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	tests := []struct {
		name      string
		kind      metadata.PrimitiveKind
		start     int
		count     int
		wantDraw  bool
		wantArgs  []int64
		wantError error
	}{
		{"default count", metadata.PRIMITIVE_TRIANGLES, 0, 0, true, []int64{glconst.TRIANGLES, 0, 7}, nil},
		{"negative count", metadata.PRIMITIVE_LINE_STRIP, 2, -1, true, []int64{glconst.LINE_STRIP, 2, 7}, nil},
		{"explicit range", metadata.PRIMITIVE_TRIANGLE_FAN, 1, 3, true, []int64{glconst.TRIANGLE_FAN, 1, 3}, nil},
		{"points draw lines", metadata.PRIMITIVE_POINTS, 0, 2, true, []int64{glconst.LINES, 0, 2}, nil},
		{"negative start", metadata.PRIMITIVE_TRIANGLES, -1, 3, false, nil, core.ErrInvalidArgument},
		{"unknown kind", metadata.PrimitiveKind(77), 0, 0, false, nil, core.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx.ResetCalls()
			err := b.DrawRange(tt.kind, tt.start, tt.count)
			if !errors.Is(err, tt.wantError) {
				t.Fatalf("error = %v, want %v", err, tt.wantError)
			}
			draws := ctx.CallsNamed("DrawArrays")
			if !tt.wantDraw {
				if len(ctx.Calls()) != 0 {
					t.Fatalf("unexpected calls %v", ctx.Calls())
				}
				return
			}
			if len(draws) != 1 {
				t.Fatalf("DrawArrays calls = %v", draws)
			}
			for i, want := range tt.wantArgs {
				if draws[0].Args[i] != want {
					t.Fatalf("DrawArrays args = %v, want %v", draws[0].Args, tt.wantArgs)
				}
			}
			if ctx.Bound() != b.Handle() {
				t.Fatal("draw should bind the buffer first")
			}
		})
	}
}

func TestConfigureStreams(t *testing.T) {
	b, ctx, _ := newTestBuffer(t)
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cfg := metadata.AttributeConfig{ComponentCount: 2, DataType: metadata.DATA_TYPE_DOUBLE, Stride: 40, ByteOffset: 24}
	if err := b.ConfigureTextureStream(cfg); err != nil {
		t.Fatalf("ConfigureTextureStream: %v", err)
	}
	p, ok := ctx.Pointer(glconst.TEXTURE_COORD_ARRAY)
	if !ok {
		t.Fatal("texture pointer not set")
	}
	want := headless.Pointer{Size: 2, Type: glconst.DOUBLE, Stride: 40, Offset: 24, Buffer: b.Handle()}
	if p != want {
		t.Fatalf("pointer = %+v, want %+v", p, want)
	}

	ctx.ResetCalls()
	err := b.ConfigureColorStream(metadata.AttributeConfig{ComponentCount: 0, DataType: metadata.DATA_TYPE_FLOAT})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
	if len(ctx.Calls()) != 0 {
		t.Fatalf("invalid config issued calls %v", ctx.Calls())
	}
}

func TestBackendErrorsAreReportedAndReturned(t *testing.T) {
	b, ctx, rep := newTestBuffer(t)
	if err := b.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ctx.FailNext("BufferData", glconst.OUT_OF_MEMORY)

	err := b.Upload(rawData(16), metadata.BUFFER_USAGE_STATIC)
	if !errors.Is(err, core.ErrBackend) {
		t.Fatalf("error = %v, want backend error", err)
	}
	if IsPrecondition(err) {
		t.Fatal("backend error is not a precondition failure")
	}
	if len(rep.errs) != 1 || rep.errs[0].Code != glconst.OUT_OF_MEMORY || rep.errs[0].Call != "glBufferData" {
		t.Fatalf("reported = %v", rep.errs)
	}
	// The operation still completed.
	if b.ElementCount() != 16 {
		t.Fatalf("ElementCount() = %d", b.ElementCount())
	}
	if err := b.Draw(metadata.PRIMITIVE_LINES); err != nil {
		t.Fatalf("Draw after reported error: %v", err)
	}
}

func TestSilentlyKeepsFailSilentPolicy(t *testing.T) {
	b, ctx, _ := newTestBuffer(t)
	Silently(b.Draw(metadata.PRIMITIVE_TRIANGLES))
	if len(ctx.Calls()) != 0 {
		t.Fatal("draw before create must not reach the backend")
	}
}
