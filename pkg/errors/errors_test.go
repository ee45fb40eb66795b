// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	if Wrap(nil, "msg") != nil {
		t.Error("Wrap(nil, msg) should return nil")
	}
	err := errors.New("base")
	wrapped := Wrap(err, "context")
	if wrapped == nil {
		t.Fatal("Wrap(err, msg) should not return nil")
	}
	if !errors.Is(wrapped, err) {
		t.Error("wrapped error should unwrap to base")
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "format %s", "x") != nil {
		t.Error("Wrapf(nil, ...) should return nil")
	}
	err := errors.New("base")
	wrapped := Wrapf(err, "id=%s", "a")
	if wrapped == nil {
		t.Fatal("Wrapf(err, ...) should not return nil")
	}
	if !errors.Is(wrapped, err) {
		t.Error("wrapped error should unwrap to base")
	}
}

func TestConfigurationAndProvider(t *testing.T) {
	err := Configuration("api key is required")
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Configuration should match ErrConfiguration, got %v", err)
	}
	if !strings.Contains(err.Error(), "api key is required") {
		t.Errorf("message lost: %v", err)
	}

	err = UnsupportedProvider("embedder", "foo")
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("UnsupportedProvider should match ErrUnsupportedProvider, got %v", err)
	}
	if !strings.Contains(err.Error(), `"foo"`) {
		t.Errorf("provider name missing: %v", err)
	}
}

func TestTransportError(t *testing.T) {
	var err error = &TransportError{StatusCode: 503, Status: "503 Service Unavailable", Body: "down\nagain"}
	wrapped := fmt.Errorf("embed: %w", err)
	if !errors.Is(wrapped, ErrTransport) {
		t.Error("TransportError should match ErrTransport")
	}
	var te *TransportError
	if !errors.As(wrapped, &te) {
		t.Fatal("errors.As should find *TransportError")
	}
	if te.StatusCode != 503 {
		t.Errorf("StatusCode = %d", te.StatusCode)
	}
	if !strings.Contains(err.Error(), `down\nagain`) {
		t.Errorf("body newlines should be escaped: %q", err.Error())
	}
}

func TestMalformedResponseError(t *testing.T) {
	err := &MalformedResponseError{StatusCode: 200, ContentType: "text/html", Snippet: "<html>\n"}
	if !errors.Is(err, ErrMalformedResponse) {
		t.Error("MalformedResponseError should match ErrMalformedResponse")
	}
	if errors.Is(err, ErrTransport) {
		t.Error("MalformedResponseError must not match ErrTransport")
	}
	msg := err.Error()
	for _, want := range []string{"200", "text/html", `<html>\n`} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestNetworkError(t *testing.T) {
	err := fmt.Errorf("generate: %w", &NetworkError{Op: "POST https://x", Err: io.ErrUnexpectedEOF})
	if !errors.Is(err, ErrNetwork) {
		t.Error("NetworkError should match ErrNetwork")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("NetworkError should unwrap to its cause")
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		body string
		n    int
		want string
	}{
		{name: "shorter than limit", body: "abc", n: 5, want: "abc"},
		{name: "ascii truncated", body: "abcdef", n: 3, want: "abc"},
		{name: "multibyte counted as runes", body: "привет", n: 3, want: "при"},
		{name: "zero limit", body: "abc", n: 0, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snippet([]byte(tt.body), tt.n); got != tt.want {
				t.Errorf("Snippet = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentinels(t *testing.T) {
	if !errors.Is(ErrNotFound, ErrNotFound) {
		t.Error("ErrNotFound should be Is ErrNotFound")
	}
	if errors.Is(ErrTransport, ErrNetwork) {
		t.Error("ErrTransport and ErrNetwork must be distinct")
	}
}
