package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	apperrors "ingestcli/internal/errors"
)

// Loader reads a tabular source from a URL or local path into a DataFrame.
type Loader struct {
	client   *http.Client
	logger   *slog.Logger
	encoding string
	sheet    string
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for remote sources
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithEncoding sets the text encoding of CSV sources
func WithEncoding(name string) LoaderOption {
	return func(l *Loader) {
		l.encoding = name
	}
}

// WithSheet selects the worksheet read from .xlsx sources
func WithSheet(sheet string) LoaderOption {
	return func(l *Loader) {
		l.sheet = sheet
	}
}

// NewLoader creates a Loader. Without WithHTTPClient it uses an
// instrumented client with no timeout.
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		client: NewHTTPClient(0, nil),
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewHTTPClient returns an otelhttp-instrumented client. A zero timeout
// means no timeout; a nil provider falls back to the global one.
func NewHTTPClient(timeout time.Duration, tp trace.TracerProvider) *http.Client {
	var opts []otelhttp.Option
	if tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tp))
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport, opts...),
	}
}

// LoadData reads the source at location. Failures are logged once and
// returned: missing sources as not-found, malformed content as parse
// errors, everything else as network or unexpected errors.
func (l *Loader) LoadData(ctx context.Context, location string) (dataframe.DataFrame, error) {
	df, err := l.load(ctx, location)
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrTypeParsing {
			l.logger.ErrorContext(ctx, fmt.Sprintf("Unable to parse csv file: %s", location), slog.String("error", err.Error()))
		} else {
			l.logger.ErrorContext(ctx, fmt.Sprintf("Unexpected error during data loading: %s", location), slog.String("error", err.Error()))
		}
		return dataframe.DataFrame{}, err
	}

	l.logger.DebugContext(ctx, fmt.Sprintf("Data loaded from %s", location),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))
	return df, nil
}

func (l *Loader) load(ctx context.Context, location string) (dataframe.DataFrame, error) {
	const op = "load_data"

	dec, err := decoderFor(l.encoding)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewValidationError(op, err.Error(), nil)
	}

	body, name, err := l.open(ctx, location)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer body.Close()

	var records [][]string
	if isWorkbook(name) {
		records, err = ParseXLSX(body, l.sheet)
	} else {
		var r io.Reader = body
		if dec != nil {
			r = dec.Reader(body)
		}
		records, err = ParseCSV(r)
	}
	if err == nil {
		var df dataframe.DataFrame
		df, err = NewDataFrame(records)
		if err == nil {
			return df, nil
		}
	}

	if isParseError(err) {
		return dataframe.DataFrame{}, apperrors.NewParsingError(op, location, err)
	}
	return dataframe.DataFrame{}, apperrors.NewAppError(apperrors.ErrTypeUnexpected, op, "failed to read source", err).
		WithContext("source", location)
}

// open returns the raw source stream and the name used to pick a parser
func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, string, error) {
	const op = "load_data"

	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, "", apperrors.NewNetworkError(op, location, err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, "", apperrors.NewNetworkError(op, location, err)
		}
		switch {
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return nil, "", apperrors.NewNotFoundError(op, location, fmt.Errorf("HTTP %s", resp.Status))
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			resp.Body.Close()
			return nil, "", apperrors.NewNetworkError(op, location, fmt.Errorf("HTTP %s", resp.Status))
		}
		return resp.Body, path.Base(u.Path), nil
	}

	f, err := os.Open(location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", apperrors.NewNotFoundError(op, location, err)
		}
		return nil, "", apperrors.NewAppError(apperrors.ErrTypeUnexpected, op, "failed to open source", err).
			WithContext("source", location)
	}
	return f, filepath.Base(location), nil
}

func isWorkbook(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

// decoderFor maps an encoding name to a decoder. UTF-8 needs none.
func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported source encoding %q", name)
	}
}
