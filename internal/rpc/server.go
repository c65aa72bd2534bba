// Package rpc exposes the converter to editors over JSON-RPC 2.0 on stdio.
//
// The server keeps a full-sync store of open documents. The
// slim2md.convert command converts a stored document in place, the way an
// editor command replaces the active buffer; slim2md/convert is a
// stateless variant taking the text in the request.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/alnah/go-slim2md"
	"go.lsp.dev/jsonrpc2"
)

// Method names.
const (
	MethodInitialize     = "initialize"
	MethodInitialized    = "initialized"
	MethodShutdown       = "shutdown"
	MethodExit           = "exit"
	MethodDidOpen        = "textDocument/didOpen"
	MethodDidChange      = "textDocument/didChange"
	MethodDidClose       = "textDocument/didClose"
	MethodExecuteCommand = "workspace/executeCommand"
	MethodConvert        = "slim2md/convert"
)

// Server implements the editor bridge.
type Server struct {
	conv     *slim2md.Converter
	docs     *DocumentStore
	logger   *log.Logger
	version  string
	shutdown atomic.Bool
	exitOnce sync.Once
	exit     chan struct{}
}

// NewServer creates a server converting with conv. A nil logger discards
// diagnostics.
func NewServer(conv *slim2md.Converter, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		conv:    conv,
		docs:    NewDocumentStore(),
		logger:  logger,
		version: version,
		exit:    make(chan struct{}),
	}
}

// Documents returns the open document store.
func (s *Server) Documents() *DocumentStore {
	return s.docs
}

// Serve runs the server on the given reader/writer until the client sends
// exit, the stream ends, or ctx is canceled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)
	defer conn.Close()

	conn.Go(ctx, s.handler)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.exit:
		return nil
	case <-conn.Done():
		if err := conn.Err(); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
}

func (s *Server) handler(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Printf("request: %s", req.Method())

	if s.shutdown.Load() && req.Method() != MethodExit {
		return reply(ctx, nil, &jsonrpc2.Error{
			Code:    jsonrpc2.InvalidRequest,
			Message: "server is shutting down",
		})
	}

	switch req.Method() {
	case MethodInitialize:
		return s.handleInitialize(ctx, reply, req)
	case MethodInitialized:
		return reply(ctx, nil, nil)
	case MethodShutdown:
		s.shutdown.Store(true)
		return reply(ctx, nil, nil)
	case MethodExit:
		s.exitOnce.Do(func() { close(s.exit) })
		return nil
	case MethodDidOpen:
		return s.handleDidOpen(ctx, reply, req)
	case MethodDidChange:
		return s.handleDidChange(ctx, reply, req)
	case MethodDidClose:
		return s.handleDidClose(ctx, reply, req)
	case MethodExecuteCommand:
		return s.handleExecuteCommand(ctx, reply, req)
	case MethodConvert:
		return s.handleConvert(ctx, reply, req)
	default:
		return reply(ctx, nil, &jsonrpc2.Error{
			Code:    jsonrpc2.MethodNotFound,
			Message: "method not supported: " + req.Method(),
		})
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	return reply(ctx, InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
			},
			ExecuteCommandProvider: &ExecuteCommandOptions{
				Commands: []string{slim2md.ConvertCommand},
			},
		},
		ServerInfo: &ServerInfo{Name: "slim2md", Version: s.version},
	}, nil)
}

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, invalidParams(err))
	}
	s.docs.Open(params.TextDocument)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, invalidParams(err))
	}
	if n := len(params.ContentChanges); n > 0 {
		// Full sync: the last change holds the whole text.
		s.docs.Update(params.TextDocument.URI, params.TextDocument.Version, params.ContentChanges[n-1].Text)
	}
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, invalidParams(err))
	}
	s.docs.Close(params.TextDocument.URI)
	return reply(ctx, nil, nil)
}

func (s *Server) handleExecuteCommand(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params ExecuteCommandParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, invalidParams(err))
	}
	if params.Command != slim2md.ConvertCommand {
		return reply(ctx, nil, &jsonrpc2.Error{
			Code:    jsonrpc2.InvalidParams,
			Message: "unknown command: " + params.Command,
		})
	}
	if len(params.Arguments) != 1 {
		return reply(ctx, nil, &jsonrpc2.Error{
			Code:    jsonrpc2.InvalidParams,
			Message: slim2md.ConvertCommand + " takes one argument",
		})
	}
	var target TextDocumentIdentifier
	if err := json.Unmarshal(params.Arguments[0], &target); err != nil {
		return reply(ctx, nil, invalidParams(err))
	}

	result, err := s.conv.ConvertActive(ctx, documentHost{store: s.docs, uri: target.URI})
	if err != nil {
		s.logger.Printf("convert %s: %v", target.URI, err)
		return reply(ctx, nil, conversionError(err))
	}

	doc, _ := s.docs.Get(target.URI)
	return reply(ctx, ConvertDocumentResult{
		URI:        target.URI,
		Text:       doc.Text,
		LanguageID: doc.LanguageID,
		Warnings:   result.Warnings,
	}, nil)
}

func (s *Server) handleConvert(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params ConvertParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, invalidParams(err))
	}

	result, err := s.conv.Convert(ctx, slim2md.Input{
		Source:   params.Text,
		FileName: params.FileName,
		Locale:   params.Locale,
	})
	if err != nil {
		return reply(ctx, nil, conversionError(err))
	}
	return reply(ctx, ConvertResult{
		Text:       result.Markdown,
		LanguageID: slim2md.MarkdownLanguageID,
		Warnings:   result.Warnings,
	}, nil)
}

func invalidParams(err error) error {
	return &jsonrpc2.Error{Code: jsonrpc2.InvalidParams, Message: err.Error()}
}

// conversionError maps conversion failures to JSON-RPC errors. Caller
// mistakes are invalid params; anything else is internal.
func conversionError(err error) error {
	code := jsonrpc2.InternalError
	switch {
	case errors.Is(err, slim2md.ErrNoActiveDocument),
		errors.Is(err, slim2md.ErrUnknownLocale):
		code = jsonrpc2.InvalidParams
	}
	return &jsonrpc2.Error{Code: code, Message: err.Error()}
}

// readWriteCloser wraps reader and writer into a ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

// Close closes the reader when it can be closed, which unblocks a pending
// read. The writer is left to its owner.
func (rwc *readWriteCloser) Close() error {
	if c, ok := rwc.Reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
