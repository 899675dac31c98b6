package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/christoph2/a2lgo"
)

var allowedOrigins = []string{
	"http://localhost:5173",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parseRequest carries an entry file plus every file it (transitively)
// includes, keyed by the name a "/include" directive would reference.
type parseRequest struct {
	Root  string            `json:"root"`
	Files map[string]string `json:"files"`
}

type parseOutcome struct {
	doc *a2lgo.Document
	err error
}

// runParse preprocesses and parses req against a deadline, reusing the
// teacher's goroutine/channel/context cancellation shape (one worker, one
// result channel, select against ctx.Done()) for the one place in this
// domain where concurrent, cancellable work is legitimate: serving
// multiple HTTP parse requests.
func runParse(ctx context.Context, rootPath string, opts a2lgo.Options) (*a2lgo.Document, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outCh := make(chan parseOutcome, 1)
	go func() {
		doc, err := a2lgo.ParseFile(rootPath, opts)
		outCh <- parseOutcome{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-outCh:
		return out.doc, out.err
	}
}

func writeRequestFiles(req parseRequest) (dir, rootPath string, err error) {
	dir, err = os.MkdirTemp("", "a2lserver-*")
	if err != nil {
		return "", "", err
	}
	for name, content := range req.Files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			os.RemoveAll(dir)
			return "", "", err
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			os.RemoveAll(dir)
			return "", "", err
		}
	}
	return dir, filepath.Join(dir, req.Root), nil
}

func handleParse(includePath []string, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req parseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Root == "" {
			writeError(w, http.StatusBadRequest, "missing field: root")
			return
		}
		if len(req.Files) == 0 {
			writeError(w, http.StatusBadRequest, "missing field: files")
			return
		}

		dir, rootPath, err := writeRequestFiles(req)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("staging files: %v", err))
			return
		}
		defer os.RemoveAll(dir)

		opts := a2lgo.DefaultOptions()
		opts.IncludePath = includePath

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		doc, err := runParse(ctx, rootPath, opts)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		defer doc.Close()

		var treeBuf bytes.Buffer
		if err := doc.WriteJSON(&treeBuf); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		diagnostics := make([]string, 0, len(doc.Diagnostics.Warnings))
		for _, warning := range doc.Diagnostics.Warnings {
			diagnostics = append(diagnostics, warning.String())
		}

		writeJSON(w, http.StatusOK, struct {
			Kind        string          `json:"kind"`
			Tree        json.RawMessage `json:"tree"`
			Diagnostics []string        `json:"diagnostics,omitempty"`
		}{Kind: "parsed", Tree: json.RawMessage(treeBuf.Bytes()), Diagnostics: diagnostics})
	}
}

func main() {
	port := flag.Int("port", 8081, "port to listen on")
	includePathFlag := flag.String("include-path", "", "colon/semicolon-separated directories searched for /include files")
	timeout := flag.Duration("timeout", 10*time.Second, "deadline for preprocessing and parsing one request")
	flag.Parse()

	var includePath []string
	if *includePathFlag != "" {
		includePath = strings.Split(*includePathFlag, string(os.PathListSeparator))
	}
	includePath = append(includePath, a2lgo.IncludePathFromEnv("ASAP_INCLUDE")...)

	mux := http.NewServeMux()
	mux.HandleFunc("/parse", handleParse(includePath, *timeout))

	addr := fmt.Sprintf(":%d", *port)
	fmt.Printf("a2lserver listening on %s\n", addr)
	if err := http.ListenAndServe(addr, corsMiddleware(mux)); err != nil {
		fmt.Fprintf(flag.CommandLine.Output(), "server error: %v\n", err)
	}
}
