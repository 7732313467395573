// Copyright (C) 2025 SAGE-X Project
//
// This file is part of ncmb-go.
//
// ncmb-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ncmb-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ncmb-go.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sage-x-project/ncmb-go/pkg/config"
	"github.com/sage-x-project/ncmb-go/pkg/dispatch"
	"github.com/sage-x-project/ncmb-go/pkg/server"
	"github.com/sage-x-project/ncmb-go/pkg/service"
)

const (
	appKey    = "example-application-key"
	clientKey = "example-client-key"
)

// newMockBackend starts an in-memory file store that checks request
// signatures and signs its responses.
func newMockBackend() *httptest.Server {
	var mu sync.Mutex
	files := map[string][]byte{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/2013-09-01/files/")
		mu.Lock()
		defer mu.Unlock()

		switch r.Method {
		case http.MethodPost:
			f, _, err := r.FormFile("file")
			if err != nil {
				server.WriteError(w, http.StatusBadRequest, "E400001", err.Error())
				return
			}
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				server.WriteError(w, http.StatusInternalServerError, "E500001", err.Error())
				return
			}
			files[name] = data
			server.WriteJSON(w, http.StatusCreated, map[string]string{"fileName": name})
		case http.MethodGet:
			data, ok := files[name]
			if !ok {
				server.WriteError(w, http.StatusNotFound, "E404001", "No data available.")
				return
			}
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write(data)
		case http.MethodDelete:
			delete(files, name)
			w.WriteHeader(http.StatusOK)
		}
	})

	mw := server.NewSignatureMiddleware(appKey, clientKey)
	return httptest.NewServer(server.SignResponses(clientKey, mw.Wrap(handler)))
}

func main() {
	fmt.Println("NCMB Go - Simple Client Example")
	fmt.Println("===============================")

	backend := newMockBackend()
	defer backend.Close()

	fmt.Println("\n1. Creating configuration context...")
	cfg, err := config.New(appKey, clientKey,
		config.WithBaseURL(backend.URL),
		config.WithResponseValidation(true),
		config.WithLogger(logrus.WithField("example", "simple-client")),
	)
	if err != nil {
		log.Fatalf("Failed to create context: %v", err)
	}
	fmt.Printf("   Base URL: %s\n", cfg.BaseURL())

	files, err := service.Files(cfg)
	if err != nil {
		log.Fatalf("Failed to get file service: %v", err)
	}

	ctx := context.Background()

	fmt.Println("\n2. Saving Sample.txt...")
	result, err := files.Save(ctx, "Sample.txt", []byte("Hello from NCMB Go!"), []byte(`{"*":{"read":true}}`))
	if err != nil {
		log.Fatalf("Save failed: %v", err)
	}
	fmt.Printf("   Saved: %v\n", result["fileName"])

	fmt.Println("\n3. Fetching Sample.txt...")
	data, err := files.Fetch(ctx, "Sample.txt")
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}
	fmt.Printf("   Content: %s\n", data)

	fmt.Println("\n4. Deleting Sample.txt asynchronously...")
	q := dispatch.NewQueue(1)
	files.DeleteAsync(ctx, "Sample.txt", q, func(err error) {
		if err != nil {
			fmt.Printf("   Delete failed: %v\n", err)
		} else {
			fmt.Println("   Deleted")
		}
		q.Close()
	})
	// deliver the callback on the main goroutine
	q.Run(ctx)

	fmt.Println("\n5. Fetching the deleted file...")
	if _, err := files.Fetch(ctx, "Sample.txt"); err != nil {
		fmt.Printf("   Expected error: %v\n", err)
	}

	fmt.Println("\n✅ Example completed!")
}
