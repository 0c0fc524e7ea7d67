package report

import (
	"context"
	"strings"
	"testing"
	"time"

	market "github.com/woysa/marketd/internal"
)

func sampleReport() *market.StatsReport {
	rows := []market.SellerStats{
		{SellerID: 1, Name: "Acme", ProductCount: 3, SalesCount: 7, ShipmentCount: 2},
		{SellerID: 2, Name: "Globex <&>", ProductCount: 1, SalesCount: 0, ShipmentCount: 0},
	}
	return market.BuildReport(rows, time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC))
}

func TestBuild_RendersBothBodies(t *testing.T) {
	t.Parallel()

	msg, err := Build("ops@example.test", sampleReport())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if msg.To != "ops@example.test" {
		t.Fatalf("to = %q", msg.To)
	}
	if want := "Seller statistics report - 2025-06-01"; msg.Subject != want {
		t.Fatalf("subject = %q, want %q", msg.Subject, want)
	}

	for _, want := range []string{"Acme", "2025-06-01 12:30", "2 sellers", "4 products", "7 sales"} {
		if !strings.Contains(msg.TextBody, want) {
			t.Errorf("text body missing %q:\n%s", want, msg.TextBody)
		}
	}
	if !strings.Contains(msg.HTMLBody, "<td><strong>Acme</strong></td>") {
		t.Errorf("html body missing seller row:\n%s", msg.HTMLBody)
	}
}

func TestBuild_EscapesHTML(t *testing.T) {
	t.Parallel()

	msg, err := Build("ops@example.test", sampleReport())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(msg.HTMLBody, "Globex <&>") {
		t.Fatal("html body contains unescaped seller name")
	}
	if !strings.Contains(msg.HTMLBody, "Globex &lt;&amp;&gt;") {
		t.Fatalf("html body missing escaped seller name:\n%s", msg.HTMLBody)
	}
	// The text body stays verbatim.
	if !strings.Contains(msg.TextBody, "Globex <&>") {
		t.Fatal("text body escaped where it should not")
	}
}

func TestBuild_EmptyReport(t *testing.T) {
	t.Parallel()

	msg, err := Build("ops@example.test", market.BuildReport(nil, time.Now()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(msg.TextBody, "0 sellers") {
		t.Fatalf("text body missing zero totals:\n%s", msg.TextBody)
	}
}

func TestLogSender_NeverFails(t *testing.T) {
	t.Parallel()

	msg, err := Build("ops@example.test", sampleReport())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := (&LogSender{}).Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestComposeMIME(t *testing.T) {
	t.Parallel()

	msg, err := Build("ops@example.test", sampleReport())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	raw := string(composeMIME("noreply@example.test", msg))

	for _, want := range []string{
		"From: noreply@example.test\r\n",
		"To: ops@example.test\r\n",
		"Content-Type: multipart/alternative;",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Type: text/html; charset=utf-8",
		"--" + mimeBoundary + "--",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q", want)
		}
	}
}
