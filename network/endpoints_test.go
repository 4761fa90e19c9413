package network

import "testing"

func TestAuthBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"ws://localhost:8000/ws", "http://localhost:8000", false},
		{"wss://game.example.com/ws?x=1", "https://game.example.com", false},
		{"http://10.0.0.2:9000/ws", "http://10.0.0.2:9000", false},
		{"ftp://host/ws", "", true},
		{"ws:///ws", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := AuthBaseURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
