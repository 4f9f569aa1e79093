// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "net/http"

// Middleware acquires a [CookieStore] for each request and guarantees its
// staged writes are flushed exactly once, before the response header.
//
// Must be registered before any middleware that reads the session.
func Middleware(codec *Codec, options CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			store := NewCookieStore(codec, request, options)
			wrapped := &flushingWriter{ResponseWriter: writer, store: store}

			next.ServeHTTP(wrapped, request.WithContext(WithStore(request.Context(), store)))

			// Handlers that never wrote still get their cookies; net/http sends
			// the header map when the handler returns.
			store.Flush(writer.Header())
		})
	}
}

// flushingWriter flushes the session store on the first header write.
type flushingWriter struct {
	http.ResponseWriter
	store *CookieStore
}

func (w *flushingWriter) WriteHeader(code int) {
	w.store.Flush(w.ResponseWriter.Header())
	w.ResponseWriter.WriteHeader(code)
}

func (w *flushingWriter) Write(b []byte) (int, error) {
	w.store.Flush(w.ResponseWriter.Header())
	return w.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to [http.ResponseController].
func (w *flushingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
