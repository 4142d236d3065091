package jsonable

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/jsonable/engine"
	"github.com/unkn0wn-root/jsonable/engine/jsoniter"
	"github.com/unkn0wn-root/jsonable/engine/sonic"
)

type testPerson struct {
	Name string `json:"name" validate:"required"`
	Age  uint32 `json:"age"`
}

const (
	paulCompact = `{"name":"Paul","age":63}`
	paulPretty  = "{\n  \"name\": \"Paul\",\n  \"age\": 63\n}"
)

var paul = testPerson{Name: "Paul", Age: 63}

// ==============================
// Package-level functions
// ==============================

func TestPersonToJSON(t *testing.T) {
	s, err := ToJSON(paul)
	require.NoError(t, err)
	assert.Equal(t, paulCompact, s)
}

func TestPersonToJSONPretty(t *testing.T) {
	s, err := ToJSONPretty(paul)
	require.NoError(t, err)
	assert.Equal(t, paulPretty, s)
}

func TestPersonFromJSON(t *testing.T) {
	p, err := FromJSON[testPerson](paulCompact)
	require.NoError(t, err)
	assert.Equal(t, "Paul", p.Name)
	assert.Equal(t, uint32(63), p.Age)
}

func TestRoundTripCompactAndPretty(t *testing.T) {
	values := []testPerson{
		paul,
		{Name: "Ada", Age: 0},
		{Name: "名前 \"quoted\" <b>", Age: 1 << 31},
	}
	for _, v := range values {
		s, err := ToJSON(v)
		require.NoError(t, err)
		got, err := FromJSON[testPerson](s)
		require.NoError(t, err)
		assert.Equal(t, v, got)

		s, err = ToJSONPretty(v)
		require.NoError(t, err)
		got, err = FromJSON[testPerson](s)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestEncodingIsDeterministic(t *testing.T) {
	v := map[string]any{"b": 1, "a": []int{1, 2}, "c": map[string]string{"z": "1", "y": "2"}}
	first, err := ToJSON(v)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ToJSON(v)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestWriterThenReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToJSONWriter(paul, &buf))
	assert.Equal(t, paulCompact, buf.String(), "writer output has no trailing newline")

	got, err := FromJSONReader[testPerson](&buf)
	require.NoError(t, err)
	assert.Equal(t, paul, got)
}

func TestFromReaderFixtureFile(t *testing.T) {
	f, err := os.Open("testdata/person.json")
	require.NoError(t, err)
	defer f.Close()

	p, err := FromJSONReader[testPerson](f)
	require.NoError(t, err)
	assert.Equal(t, "Paul Min", p.Name)
	assert.Equal(t, uint32(74), p.Age)
}

// ==============================
// Failure taxonomy
// ==============================

func TestTruncatedTextIsStructural(t *testing.T) {
	p, err := FromJSON[testPerson](`{"name":"Paul"`)
	require.Error(t, err)
	assert.True(t, IsStructural(err), "got %v", err)
	assert.True(t, strings.HasPrefix(err.Error(), "Json error: "), err.Error())
	assert.Equal(t, testPerson{}, p)
}

func TestWrongFieldTypeIsStructural(t *testing.T) {
	_, err := FromJSON[testPerson](`{"name":1,"age":63}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)
}

func TestMissingRequiredFieldIsStructural(t *testing.T) {
	_, err := FromJSON[testPerson](`{"age":63}`)
	require.Error(t, err)
	assert.True(t, IsStructural(err))

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve, 1)
	assert.Equal(t, "Name", ve[0].Field())
	assert.Contains(t, err.Error(), "required")
}

func TestMissingRequiredFieldBehindPointer(t *testing.T) {
	_, err := FromJSON[*testPerson](`{"age":63}`)
	assert.True(t, IsStructural(err))

	p, err := FromJSON[*testPerson](`null`)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSkipValidationAcceptsMissingField(t *testing.T) {
	c, err := New[testPerson](Options{SkipValidation: true})
	require.NoError(t, err)
	p, err := c.FromJSON(`{"age":63}`)
	require.NoError(t, err)
	assert.Equal(t, testPerson{Age: 63}, p)
}

func TestMissingRequiredFieldInSliceElement(t *testing.T) {
	_, err := FromJSON[[]testPerson](`[{"name":"Paul","age":63},{"age":1}]`)
	require.Error(t, err)
	assert.True(t, IsStructural(err))
	assert.Contains(t, err.Error(), "index 1")

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Name", ve[0].Field())

	_, err = FromJSON[[2]testPerson](`[{"name":"Paul"},{"age":1}]`)
	assert.True(t, IsStructural(err))

	_, err = FromJSON[[][]*testPerson](`[[null],[{"age":1}]]`)
	assert.True(t, IsStructural(err))
}

func TestMissingRequiredFieldInMapValue(t *testing.T) {
	_, err := FromJSON[map[string]testPerson](`{"a":{"age":1}}`)
	require.Error(t, err)
	assert.True(t, IsStructural(err))
	assert.Contains(t, err.Error(), "key a")

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Name", ve[0].Field())
}

func TestValidCollectionsDecode(t *testing.T) {
	people, err := FromJSON[[]*testPerson](`[{"name":"Paul","age":63},null]`)
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, paul, *people[0])
	assert.Nil(t, people[1])

	byID, err := FromJSON[map[string]testPerson](`{"p":{"name":"Paul","age":63}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]testPerson{"p": paul}, byID)

	c, err := New[[]testPerson](Options{SkipValidation: true})
	require.NoError(t, err)
	got, err := c.FromJSON(`[{"age":1}]`)
	require.NoError(t, err)
	assert.Equal(t, []testPerson{{Age: 1}}, got)
}

func TestInvalidUTF8IsStructural(t *testing.T) {
	const in = "{\"name\":\"P\xffaul\",\"age\":63}"

	p, err := FromJSON[testPerson](in)
	require.Error(t, err)
	assert.True(t, IsStructural(err))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Contains(t, err.Error(), "at byte 10")
	assert.Equal(t, testPerson{}, p)

	_, err = FromJSONReader[testPerson](strings.NewReader(in))
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	c, err := New[testPerson](Options{AllowInvalidUTF8: true})
	require.NoError(t, err)
	p, err = c.FromJSON(in)
	require.NoError(t, err)
	assert.Equal(t, "P\uFFFDaul", p.Name)
}

func TestClosedSourceIsTransport(t *testing.T) {
	f, err := os.Open("testdata/person.json")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = FromJSONReader[testPerson](f)
	require.Error(t, err)
	assert.True(t, IsTransport(err), "got %v", err)
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.True(t, strings.HasPrefix(err.Error(), "IO error: "), err.Error())
}

func TestMissingFileStaysTransportForCallers(t *testing.T) {
	_, err := os.Open("testdata/does-not-exist.json")
	err = Transport(err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestReaderFailureIsTransport(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := FromJSONReader[testPerson](io.MultiReader(strings.NewReader(`{"name":`), failingReader{boom}))
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, boom)
}

func TestReaderParseFailureIsStructural(t *testing.T) {
	_, err := FromJSONReader[testPerson](strings.NewReader(`{"name":"Paul"`))
	assert.True(t, IsStructural(err))
}

func TestNilStreams(t *testing.T) {
	err := ToJSONWriter(paul, nil)
	assert.ErrorIs(t, err, ErrNilWriter)
	assert.True(t, IsTransport(err))

	_, err = FromJSONReader[testPerson](nil)
	assert.ErrorIs(t, err, ErrNilReader)
	assert.True(t, IsTransport(err))
}

func TestWriterFailureIsTransport(t *testing.T) {
	boom := errors.New("disk full")
	err := ToJSONWriter(paul, failingWriter{boom})
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, boom)
}

func TestShortWriteIsTransport(t *testing.T) {
	w := &shortWriter{max: 5}
	err := ToJSONWriter(paul, w)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.True(t, IsTransport(err))
	// no rollback of what already reached the sink
	assert.Equal(t, paulCompact[:5], w.buf.String())
}

func TestUnencodableValueIsStructural(t *testing.T) {
	_, err := ToJSON(map[string]any{"ch": make(chan int)})
	assert.True(t, IsStructural(err))

	_, err = ToJSONPretty(func() {})
	assert.True(t, IsStructural(err))

	var buf bytes.Buffer
	err = ToJSONWriter(make(chan int), &buf)
	assert.True(t, IsStructural(err))
	assert.Zero(t, buf.Len())
}

// ==============================
// Options
// ==============================

func TestOptionsIndent(t *testing.T) {
	c, err := New[testPerson](Options{Indent: "\t"})
	require.NoError(t, err)
	s, err := c.ToJSONPretty(paul)
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"name\": \"Paul\",\n\t\"age\": 63\n}", s)

	_, err = New[testPerson](Options{Indent: "--"})
	assert.ErrorContains(t, err, "indent")
}

func TestMaxDecodeRejectsOversizePayload(t *testing.T) {
	hooks := &recordingHooks{}
	log := &recordingLogger{}
	c, err := New[testPerson](Options{MaxDecode: 10, Hooks: hooks, Logger: log})
	require.NoError(t, err)

	_, err = c.FromJSON(paulCompact)
	assert.True(t, IsStructural(err))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Contains(t, err.Error(), "24 > 10")

	_, err = c.FromJSONReader(strings.NewReader(paulCompact))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Contains(t, err.Error(), "11 > 10", "reader stops one byte past the limit")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, 2, hooks.rejected)
	assert.Equal(t, 2, hooks.decodeFailed)
	assert.Contains(t, log.msgs(), "payload rejected (too large)")
}

func TestMaxDecodeAllowsPayloadAtLimit(t *testing.T) {
	c, err := New[testPerson](Options{MaxDecode: int64(len(paulCompact))})
	require.NoError(t, err)
	p, err := c.FromJSONReader(strings.NewReader(paulCompact))
	require.NoError(t, err)
	assert.Equal(t, paul, p)
}

func TestHooksAndLoggerSeeFailures(t *testing.T) {
	hooks := &recordingHooks{}
	log := &recordingLogger{}
	c, err := New[testPerson](Options{Hooks: hooks, Logger: log})
	require.NoError(t, err)

	_, _ = c.FromJSON(`{`)
	_ = c.ToJSONWriter(paul, failingWriter{errors.New("x")})

	hooks.mu.Lock()
	assert.Equal(t, 1, hooks.decodeFailed)
	assert.Equal(t, 1, hooks.encodeFailed)
	assert.Equal(t, []string{"jsonable.testPerson:from_json:Json error", "jsonable.testPerson:to_json_writer:IO error"}, hooks.events)
	hooks.mu.Unlock()

	assert.Equal(t, []string{"decode failed", "encode failed"}, log.msgs())
}

func TestEveryEngineProducesSameText(t *testing.T) {
	for _, e := range []engine.Engine{engine.Goccy{}, engine.Std{}, jsoniter.Engine{}, sonic.Engine{}} {
		t.Run(e.Name(), func(t *testing.T) {
			c, err := New[testPerson](Options{Engine: e})
			require.NoError(t, err)

			s, err := c.ToJSON(paul)
			require.NoError(t, err)
			assert.Equal(t, paulCompact, s)

			pretty, err := c.ToJSONPretty(paul)
			require.NoError(t, err)
			got, err := c.FromJSON(pretty)
			require.NoError(t, err)
			assert.Equal(t, paul, got)

			_, err = c.FromJSON(`{"name":"Paul"`)
			assert.True(t, IsStructural(err))

			_, err = c.FromJSON(`{"age":63}`)
			assert.True(t, IsStructural(err))
		})
	}
}

func TestStdAndGoccyPrettyMatch(t *testing.T) {
	for _, e := range []engine.Engine{engine.Std{}, engine.Goccy{}} {
		c, err := New[testPerson](Options{Engine: e})
		require.NoError(t, err)
		s, err := c.ToJSONPretty(paul)
		require.NoError(t, err)
		assert.Equal(t, paulPretty, s, e.Name())
	}
}

func TestConcurrentConversions(t *testing.T) {
	c, err := New[testPerson](Options{})
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := testPerson{Name: strings.Repeat("x", i+1), Age: uint32(i)}
			var buf bytes.Buffer
			if err := c.ToJSONWriter(in, &buf); err != nil {
				errs <- err
				return
			}
			out, err := c.FromJSONReader(&buf)
			if err != nil {
				errs <- err
				return
			}
			if out != in {
				errs <- errors.New("round-trip mismatch")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// ==============================
// Helpers
// ==============================

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

// shortWriter accepts at most max bytes and reports a short count without an error.
type shortWriter struct {
	buf bytes.Buffer
	max int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.max {
		p = p[:w.max]
	}
	return w.buf.Write(p)
}

type recordingHooks struct {
	mu           sync.Mutex
	encodeFailed int
	decodeFailed int
	rejected     int
	events       []string
}

func (h *recordingHooks) EncodeFailed(typeName, op string, err *Error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.encodeFailed++
	h.events = append(h.events, typeName+":"+op+":"+err.Kind.String())
}

func (h *recordingHooks) DecodeFailed(typeName, op string, err *Error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.decodeFailed++
	h.events = append(h.events, typeName+":"+op+":"+err.Kind.String())
}

func (h *recordingHooks) PayloadRejected(string, int64, int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejected++
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) add(msg string) {
	l.mu.Lock()
	l.entries = append(l.entries, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) msgs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func (l *recordingLogger) Debug(msg string, _ Fields) { l.add(msg) }
func (l *recordingLogger) Info(msg string, _ Fields)  { l.add(msg) }
func (l *recordingLogger) Warn(msg string, _ Fields)  { l.add(msg) }
func (l *recordingLogger) Error(msg string, _ Fields) { l.add(msg) }
