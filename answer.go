package exa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/erayack/exa-go/sse"
)

// Citation is a source reference attached to an answer.
type Citation struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Title         string `json:"title,omitempty"`
	PublishedDate string `json:"publishedDate,omitempty"`
	Author        string `json:"author,omitempty"`
	Text          string `json:"text,omitempty"`
}

// AnswerChunk is one increment of a streamed answer: a piece of content, a
// set of citations, or both. Chunks with neither are never emitted.
type AnswerChunk struct {
	Content   string
	Citations []Citation
}

// AnswerResponse is a complete answer with its citations.
type AnswerResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations,omitempty"`
	Model     string     `json:"model,omitempty"`
}

// AnswerOptions carries optional parameters for Answer and StreamAnswer.
type AnswerOptions struct {
	Model        string `json:"model,omitempty"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
	IncludeText  bool   `json:"text,omitempty"`
}

type answerRequest struct {
	Query  string `json:"query"`
	Stream bool   `json:"stream,omitempty"`
	*AnswerOptions
}

// answerPayload mirrors the OpenAI-style choice-delta shape the answer
// stream uses on the wire, plus the citations array Exa appends.
type answerPayload struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Citations json.RawMessage `json:"citations"`
}

// decodeAnswerChunk extracts a chunk from one decoded SSE payload. ok is
// false when the chunk carries neither content nor citations and must be
// suppressed. A citations field holding the JSON string "null" is treated
// as absent — the upstream serializes "no citations" that way, and the
// quirk is preserved for compatibility.
func decodeAnswerChunk(data string) (AnswerChunk, bool) {
	var payload answerPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return AnswerChunk{}, false
	}

	var chunk AnswerChunk
	if len(payload.Choices) > 0 {
		chunk.Content = payload.Choices[0].Delta.Content
	}
	if raw := string(payload.Citations); raw != "" && raw != "null" && raw != `"null"` {
		// A decode failure here leaves citations absent rather than killing
		// the stream, matching the malformed-line policy.
		_ = json.Unmarshal(payload.Citations, &chunk.Citations)
	}

	ok := chunk.Content != "" || len(chunk.Citations) > 0
	return chunk, ok
}

// sseEnvelope is the tagged wire shape of blocking streaming calls:
// progress events keep the connection warm, exactly one complete or error
// event settles the call.
type sseEnvelope struct {
	Tag   string          `json:"tag"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// readCompletion consumes a tagged event stream until its terminal event
// and decodes the completion payload into T. The body is closed on every
// exit path. A stream that ends without a terminal event is a protocol
// failure, and malformed lines are skipped, never fatal.
func readCompletion[T any](body io.ReadCloser) (T, error) {
	var zero T
	defer body.Close()

	sc := sse.NewScanner(body)
	for {
		payload, err := sc.Next()
		if err == io.EOF {
			return zero, &StreamError{Message: "stream ended without a completion event"}
		}
		if err != nil {
			return zero, fmt.Errorf("exa: reading event stream: %w", err)
		}

		var env sseEnvelope
		if err := json.Unmarshal([]byte(payload), &env); err != nil {
			continue
		}
		switch env.Tag {
		case "complete":
			var out T
			if err := json.Unmarshal(env.Data, &out); err != nil {
				return zero, fmt.Errorf("exa: decoding completion event: %w", err)
			}
			return out, nil
		case "error":
			msg := "Unknown error"
			if env.Error != nil && env.Error.Message != "" {
				msg = env.Error.Message
			}
			return zero, &APIError{Message: msg, StatusCode: 500}
		default:
			// progress and unrecognized tags keep the stream alive.
		}
	}
}

// Answer asks the /answer endpoint for a complete answer, waiting for the
// terminal event of the underlying stream.
func (c *Client) Answer(ctx context.Context, query string, opts *AnswerOptions) (*AnswerResponse, error) {
	if query == "" {
		return nil, fmt.Errorf("query must not be empty: %w", ErrValidation)
	}
	resp, err := c.stream(ctx, "/answer", answerRequest{Query: query, AnswerOptions: opts})
	if err != nil {
		return nil, err
	}
	out, err := readCompletion[AnswerResponse](resp.Body)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StreamAnswer asks the /answer endpoint for an incrementally streamed
// answer. The caller must Close the returned stream; pairing it with [All]
// does that automatically.
func (c *Client) StreamAnswer(ctx context.Context, query string, opts *AnswerOptions) (*AnswerStream, error) {
	if query == "" {
		return nil, fmt.Errorf("query must not be empty: %w", ErrValidation)
	}
	resp, err := c.stream(ctx, "/answer", answerRequest{Query: query, Stream: true, AnswerOptions: opts})
	if err != nil {
		return nil, err
	}
	return &AnswerStream{body: resp.Body, sc: sse.NewScanner(resp.Body), log: c.logger}, nil
}

// AnswerStream is a pull iterator over the chunks of a streamed answer.
// Every chunk carries content, citations, or both, in arrival order; the
// stream ends with io.EOF when the response body does. Malformed events are
// skipped mid-stream.
type AnswerStream struct {
	body      io.ReadCloser
	sc        *sse.Scanner
	log       *log.Logger
	answer    []byte
	citations []Citation
	closed    bool
}

// Interface compliance check.
var _ Source[AnswerChunk] = (*AnswerStream)(nil)

// Next returns the next non-empty chunk, or io.EOF at the natural end of
// the stream.
func (s *AnswerStream) Next() (AnswerChunk, error) {
	if s.closed {
		return AnswerChunk{}, ErrStreamClosed
	}
	for {
		payload, err := s.sc.Next()
		if err == io.EOF {
			return AnswerChunk{}, io.EOF
		}
		if err != nil {
			return AnswerChunk{}, fmt.Errorf("exa: reading answer stream: %w", err)
		}
		chunk, ok := decodeAnswerChunk(payload)
		if !ok {
			continue
		}
		s.answer = append(s.answer, chunk.Content...)
		s.citations = append(s.citations, chunk.Citations...)
		return chunk, nil
	}
}

// Answer returns the answer accumulated from the chunks consumed so far.
func (s *AnswerStream) Answer() AnswerResponse {
	return AnswerResponse{Answer: string(s.answer), Citations: s.citations}
}

// Close releases the underlying response body. It is idempotent and safe
// to call at any point of consumption.
func (s *AnswerStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

func (s *AnswerStream) logger() *log.Logger { return s.log }
