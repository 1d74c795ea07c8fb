package spelling

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/grammarstudio/internal/llm"
)

func TestLLMChecker_Check(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"correctedText":"The cat sat.","errorsFound":true,"explanation":"Fixed 'sed' and added a period."}`),
	})
	c := NewLLMChecker(mock, DefaultConfig())

	res, err := c.Check(context.Background(), "The cat sed")
	require.NoError(t, err)
	assert.Equal(t, &Result{
		CorrectedText: "The cat sat.",
		ErrorsFound:   true,
		Explanation:   "Fixed 'sed' and added a period.",
	}, res)

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Contains(t, call.Messages[0].Content, `"The cat sed"`)
	assert.Equal(t, ResultSchema, call.Schema)
}

func TestLLMChecker_BlankText(t *testing.T) {
	mock := llm.NewMockProvider()
	c := NewLLMChecker(mock, DefaultConfig())

	_, err := c.Check(context.Background(), "  \n")
	assert.ErrorIs(t, err, ErrBlankText)
	assert.Equal(t, 0, mock.CallCount())
}

func TestLLMChecker_InvalidResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"correctedText":"x"}`),
	})
	c := NewLLMChecker(mock, DefaultConfig())

	_, err := c.Check(context.Background(), "x")
	var inv *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}

type stubChecker struct {
	results []*Result
	errs    []error
	calls   int
}

func (s *stubChecker) Check(context.Context, string) (*Result, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return s.results[i], nil
}

func TestDesk_KeepsPriorResultOnFailure(t *testing.T) {
	first := &Result{CorrectedText: "Hello.", ErrorsFound: true, Explanation: "Added a period."}
	checker := &stubChecker{
		results: []*Result{first, nil},
		errs:    []error{nil, errors.New("network down")},
	}
	d := NewDesk(checker, nil)

	require.True(t, d.Scan(context.Background(), "Hello"))
	assert.False(t, d.Scan(context.Background(), "Helo wrld"))

	res, text, ok := d.Result()
	require.True(t, ok)
	assert.Equal(t, first, res)
	assert.Equal(t, "Hello", text)
}

func TestDesk_FailureWithoutPriorResult(t *testing.T) {
	d := NewDesk(&stubChecker{errs: []error{errors.New("down")}}, nil)
	assert.False(t, d.Scan(context.Background(), "Helo"))
	_, _, ok := d.Result()
	assert.False(t, ok)
}

func TestDesk_BlankTextIsNoop(t *testing.T) {
	checker := &stubChecker{}
	d := NewDesk(checker, nil)
	assert.False(t, d.Scan(context.Background(), "   "))
	assert.Equal(t, 0, checker.calls)
}

func TestDesk_NilChecker(t *testing.T) {
	d := NewDesk(nil, nil)
	assert.False(t, d.Scan(context.Background(), "Hello"))
}

// gatedChecker blocks in Check until release is closed.
type gatedChecker struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (g *gatedChecker) Check(context.Context, string) (*Result, error) {
	g.calls.Add(1)
	g.entered <- struct{}{}
	<-g.release
	return &Result{CorrectedText: "Hello."}, nil
}

func TestDesk_DropsScanWhileOneIsRunning(t *testing.T) {
	g := &gatedChecker{entered: make(chan struct{}, 1), release: make(chan struct{})}
	d := NewDesk(g, nil)

	done := make(chan bool)
	go func() { done <- d.Scan(context.Background(), "Hello") }()
	<-g.entered
	assert.True(t, d.Scanning())

	assert.False(t, d.Scan(context.Background(), "Helo wrld"))

	close(g.release)
	require.True(t, <-done)
	assert.False(t, d.Scanning())
	assert.Equal(t, int32(1), g.calls.Load())

	res, text, ok := d.Result()
	require.True(t, ok)
	assert.Equal(t, "Hello.", res.CorrectedText)
	assert.Equal(t, "Hello", text)
}
