package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/erraggy/bcdtools"
	"github.com/erraggy/bcdtools/bcderrors"
	"go.yaml.in/yaml/v4"
)

// DefaultMaxFileSize bounds how much input is read before parsing (256 MiB).
// The full upstream compat data is a few tens of MiB.
const DefaultMaxFileSize int64 = 256 << 20

// Parser loads compat documents.
type Parser struct {
	// UserAgent is sent when fetching documents over HTTP.
	// Default: bcdtools.UserAgent()
	UserAgent string
	// HTTPClient is used for URL sources. Default: a client with a 60s timeout.
	HTTPClient *http.Client
	// Logger receives diagnostic output. Default: NopLogger.
	Logger Logger
	// MaxFileSize caps the input size in bytes. 0 means DefaultMaxFileSize.
	MaxFileSize int64
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		UserAgent: bcdtools.UserAgent(),
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

func (p *Parser) maxFileSize() int64 {
	if p.MaxFileSize > 0 {
		return p.MaxFileSize
	}
	return DefaultMaxFileSize
}

// SourceFormat represents the format of the source document
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains the parsed compat document and metadata about the load.
//
// Callers should treat ParseResult as read-only: walkers share the
// underlying tree and may read it from several goroutines.
type ParseResult struct {
	// SourcePath is the file path or URL the document was read from.
	// For reader and byte sources it is "ParseReader.json", "ParseBytes.yaml", etc.
	SourcePath string
	// SourceFormat is the format of the source (JSON or YAML)
	SourceFormat SourceFormat
	// Document is the order-preserving document tree
	Document *Document
	// LoadTime is the time taken to load the source data (file, URL, etc.)
	LoadTime time.Duration
	// ParseTime is the time taken to decode the data into a tree
	ParseTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// Stats contains statistical information about the document
	Stats DocumentStats
}

// Parse parses a compat document from a file path, "-" for stdin, or an
// http(s) URL.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	if path == StdinPath {
		res, err := p.ParseReader(os.Stdin)
		if err != nil {
			return nil, err
		}
		res.SourcePath = "<stdin>"
		return res, nil
	}

	var data []byte
	var err error
	var format SourceFormat

	loadStart := time.Now()
	if isURL(path) {
		var contentType string
		data, contentType, err = p.fetchURL(path)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromURL(path, contentType)
	} else {
		data, err = p.readFile(path)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromPath(path)
	}
	loadTime := time.Since(loadStart)

	if format == SourceFormatUnknown {
		format = detectFormatFromContent(data)
	}

	res, err := p.parseData(data, format, path)
	if err != nil {
		return nil, err
	}
	res.SourcePath = path
	res.LoadTime = loadTime
	return res, nil
}

// ParseReader parses a compat document from an io.Reader.
// SourcePath is set to ParseReader.json or ParseReader.yaml.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	limit := p.maxFileSize()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &bcderrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        limit,
			Message:      "input exceeds maximum size",
		}
	}

	res, err := p.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourcePath = "ParseReader." + string(res.SourceFormat)
	return res, nil
}

// ParseBytes parses a compat document held in memory.
// SourcePath is set to ParseBytes.json or ParseBytes.yaml.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	format := detectFormatFromContent(data)
	name := "ParseBytes." + string(format)
	res, err := p.parseData(data, format, name)
	if err != nil {
		return nil, err
	}
	res.SourcePath = name
	return res, nil
}

// parseData decodes data in the given format into a Document.
// A document that cannot be decoded is fatal: no partial result is returned.
func (p *Parser) parseData(data []byte, format SourceFormat, source string) (*ParseResult, error) {
	start := time.Now()
	size := int64(len(data))
	data = bytes.TrimPrefix(data, utf8BOM)

	var root *yaml.Node
	var err error
	switch format {
	case SourceFormatJSON:
		root, err = decodeJSONNode(data)
		if err != nil {
			return nil, jsonParseError(source, data, err)
		}
	case SourceFormatYAML:
		var doc yaml.Node
		if err = yaml.Unmarshal(data, &doc); err != nil {
			return nil, &bcderrors.ParseError{Path: source, Message: "invalid YAML", Cause: err}
		}
		root = &doc
	default:
		return nil, &bcderrors.ParseError{Path: source, Message: "empty document"}
	}

	doc, err := NewDocument(root)
	if err != nil {
		return nil, &bcderrors.ParseError{Path: source, Cause: err}
	}

	res := &ParseResult{
		SourceFormat: format,
		Document:     doc,
		ParseTime:    time.Since(start),
		SourceSize:   size,
		Stats:        GetDocumentStats(doc),
	}
	p.log().Debug("parsed compat document",
		"source", source,
		"format", format,
		"size", FormatBytes(res.SourceSize),
		"categories", res.Stats.CategoryCount,
		"browsers", res.Stats.BrowserCount,
		"compat_nodes", res.Stats.CompatNodeCount,
		"parse_time", res.ParseTime,
	)
	return res, nil
}

// readFile reads a local file, refusing anything larger than the size limit.
func (p *Parser) readFile(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // G304 - path is user-provided input (CLI tool)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	limit := p.maxFileSize()
	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, &bcderrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        limit,
			Actual:       info.Size(),
			Message:      path,
		}
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &bcderrors.ResourceLimitError{ResourceType: "file_size", Limit: limit, Message: path}
	}
	return data, nil
}

// jsonParseError converts a JSON decode failure into a ParseError with a
// line and column when the decoder reported an offset.
func jsonParseError(source string, data []byte, err error) error {
	pe := &bcderrors.ParseError{Path: source, Message: "invalid JSON", Cause: err}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		pe.Line, pe.Column = offsetToLineColumn(data, syntaxErr.Offset)
	}
	return pe
}
