package textsplitter

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/tenwave/medassist/config"
)

const defaultEncoding = "cl100k_base"

// Codec encodes text to tokens and back. The production codec wraps
// tiktoken; tests substitute a deterministic one.
type Codec interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenCodec struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCodec) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

func (c *tiktokenCodec) Decode(tokens []int) string {
	return c.enc.Decode(tokens)
}

// Splitter cuts text into token windows with overlap for indexing.
type Splitter struct {
	chunkSize int
	overlap   int
	codec     Codec
}

// New creates a splitter from config using the tiktoken encoding.
func New(cfg *config.SplitterConfig) (*Splitter, error) {
	encoding := defaultEncoding
	if cfg != nil && cfg.Encoding != "" {
		encoding = cfg.Encoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s failed, err: %w", encoding, err)
	}
	size, overlap := 1512, 256
	if cfg != nil && cfg.ChunkSize > 0 {
		size = cfg.ChunkSize
	}
	if cfg != nil && cfg.ChunkOverlap > 0 {
		overlap = cfg.ChunkOverlap
	}
	return NewWithCodec(size, overlap, &tiktokenCodec{enc: enc})
}

// NewWithCodec creates a splitter with an explicit codec.
func NewWithCodec(chunkSize, overlap int, codec Codec) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, chunk size), got %d", overlap)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap, codec: codec}, nil
}

// Split cuts text into chunks of at most chunkSize tokens, each sharing
// overlap tokens with its predecessor. Whitespace-only input yields no
// chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	tokens := s.codec.Encode(text)
	if len(tokens) <= s.chunkSize {
		return []string{text}
	}

	step := s.chunkSize - s.overlap
	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + s.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, s.codec.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}
	return chunks
}

// CountTokens returns the token count of text under the splitter codec.
func (s *Splitter) CountTokens(text string) int {
	return len(s.codec.Encode(text))
}
