package main

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/pipe01/xmlhl/internal/document"
	"github.com/pipe01/xmlhl/internal/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "xmlhl"

var version string = "0.0.1"
var handler protocol.Handler

var (
	tcpAddress       = kingpin.Flag("tcp", "Listen for a client on this TCP address instead of stdio").String()
	websocketAddress = kingpin.Flag("websocket", "Listen for clients on this WebSocket address instead of stdio").String()
	verbosity        = kingpin.Flag("verbose", "Increase logging verbosity").Short('v').Counter()
	debug            = kingpin.Flag("debug", "Log every JSON-RPC message").Bool()
)

var documents = workspace.New("")

var log = commonlog.GetLogger("xmlhl.lsp")

func main() {
	kingpin.Parse()

	commonlog.Configure(1+*verbosity, nil)

	protocol.SetTraceValue(protocol.TraceValueMessage)

	handler = protocol.Handler{
		Initialize:  initialize,
		Initialized: initialized,
		Shutdown:    shutdown,
		SetTrace:    setTrace,
		TextDocumentDidOpen: func(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
			documents.Open(params.TextDocument.URI, params.TextDocument.Text)
			return nil
		},
		TextDocumentDidChange: func(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
			return documents.With(params.TextDocument.URI, func(d *document.Document) error {
				for _, change := range params.ContentChanges {
					applyChange(d, change)
				}
				return nil
			})
		},
		TextDocumentDidClose: func(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
			documents.Close(params.TextDocument.URI)
			return nil
		},
		TextDocumentSemanticTokensFull: semanticTokensFull,
	}

	server := server.NewServer(&handler, lsName, *debug)

	var err error
	switch {
	case *websocketAddress != "":
		err = server.RunWebSocket(*websocketAddress)
	case *tcpAddress != "":
		err = server.RunTCP(*tcpAddress)
	default:
		err = server.RunStdio()
	}

	if err != nil {
		kingpin.Fatalf("server stopped: %s", err)
	}
}

func applyChange(d *document.Document, change any) {
	switch change := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		d.Replace(0, len(d.Text()), change.Text)

	case protocol.TextDocumentContentChangeEvent:
		startIndex, endIndex := change.Range.IndexesIn(d.Text())
		relexed := d.Replace(startIndex, endIndex, change.Text)

		log.Debugf("applied change at %d-%d, %d lines tokenized again", startIndex, endIndex, relexed)
	}
}

func initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := handler.CreateServerCapabilities()
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     tokenTypes,
			TokenModifiers: tokenModifiers,
		},
		Range: false,
		Full:  true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}
