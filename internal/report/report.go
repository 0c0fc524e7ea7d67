// Package report renders and delivers seller statistics reports.
package report

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"text/template"

	market "github.com/woysa/marketd/internal"
)

// Message is a rendered report ready for delivery. Both bodies carry
// the same data; mail clients pick the richest part they support.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a rendered report message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

const textBody = `Seller statistics report
Generated: {{.GeneratedAt.Format "2006-01-02 15:04"}} UTC
{{range .Sellers}}
Seller: {{.Name}}
  - sales:     {{.SalesCount}}
  - products:  {{.ProductCount}}
  - shipments: {{.ShipmentCount}}
{{end}}
Totals: {{.TotalSellers}} sellers, {{.TotalProducts}} products, {{.TotalSales}} sales
`

const htmlBody = `<html>
  <body>
    <h2>Seller statistics report</h2>
    <p><strong>Generated:</strong> {{.GeneratedAt.Format "2006-01-02 15:04"}} UTC</p>
    <table border="1" cellpadding="8" style="border-collapse: collapse;">
      <tr style="background-color: #f2f2f2;">
        <th>Seller</th><th>Sales</th><th>Products</th><th>Shipments</th>
      </tr>
{{- range .Sellers}}
      <tr>
        <td><strong>{{.Name}}</strong></td>
        <td style="text-align: center;">{{.SalesCount}}</td>
        <td style="text-align: center;">{{.ProductCount}}</td>
        <td style="text-align: center;">{{.ShipmentCount}}</td>
      </tr>
{{- end}}
    </table>
    <p>
      <strong>Totals:</strong>
      {{.TotalSellers}} sellers,
      {{.TotalProducts}} products,
      {{.TotalSales}} sales
    </p>
  </body>
</html>
`

var (
	textTmpl = template.Must(template.New("report").Parse(textBody))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("report").Parse(htmlBody))
)

// Build renders a statistics report into a deliverable message.
func Build(recipient string, stats *market.StatsReport) (*Message, error) {
	var text, html bytes.Buffer
	if err := textTmpl.Execute(&text, stats); err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}
	if err := htmlTmpl.Execute(&html, stats); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}
	return &Message{
		To:       recipient,
		Subject:  "Seller statistics report - " + stats.GeneratedAt.Format("2006-01-02"),
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}

// LogSender logs reports instead of delivering them. Used in demo mode
// and as the fallback when no SMTP host is configured.
type LogSender struct {
	Logger *slog.Logger
}

// Send logs the message headers and text body.
func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "report delivered (demo mode)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("text_bytes", len(msg.TextBody)),
	)
	return nil
}
