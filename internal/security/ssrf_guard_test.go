package security

import (
	"testing"
	"time"
)

func TestSSRFGuard_ImplementsInterface(t *testing.T) {
	var _ SSRFGuardService = (*ssrfGuard)(nil)
}

func TestNewSafeClient_ReturnsClient(t *testing.T) {
	g := NewSSRFGuard()
	client := g.NewSafeClient(10 * time.Second)
	if client == nil {
		t.Fatal("NewSafeClient は非nilのクライアントを返すべき")
	}
}

func TestValidateURL(t *testing.T) {
	g := NewSSRFGuard()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"通常のhttps URL", "https://caption-api.example.com/generate", false},
		{"通常のhttp URL", "http://caption-api.example.com/generate", false},
		{"空URL", "", true},
		{"スキームなし", "caption-api.example.com", true},
		{"fileスキーム", "file:///etc/passwd", true},
		{"localhost", "http://localhost:8080/generate", true},
		{"ループバックIP", "http://127.0.0.1/generate", true},
		{"プライベートIP 10系", "http://10.0.0.5/generate", true},
		{"プライベートIP 192.168系", "http://192.168.1.10/generate", true},
		{"メタデータIP", "http://169.254.169.254/latest/meta-data", true},
		{"IPv6ループバック", "http://[::1]/generate", true},
		{"パブリックIP", "http://203.0.113.10/generate", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
