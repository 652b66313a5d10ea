package templates

import (
	"fmt"
	"html"
	"strings"
)

const layout = `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #0b1120; }
    .container { max-width: 600px; margin: 0 auto; background-color: #111827; }
    .header { background: linear-gradient(135deg, #0ea5e9 0%%, #2563eb 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #e5e7eb; line-height: 1.6; font-size: 15px; }
    .content table { width: 100%%; border-collapse: collapse; }
    .content td { padding: 6px 4px; border-bottom: 1px solid rgba(255,255,255,0.08); }
    .cta-button { display: inline-block; background: #2563eb; color: #fff; padding: 14px 28px; border-radius: 8px; text-decoration: none; font-weight: 700; margin-top: 20px; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid rgba(255,255,255,0.1); }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      %s
    </div>
    <div class="footer">
      <p>&copy; CyberMitra Guardian</p>
    </div>
  </div>
</body>
</html>`

func render(subject, innerHTML string) string {
	safeSubject := html.EscapeString(subject)
	return fmt.Sprintf(layout, safeSubject, safeSubject, innerHTML)
}

// escapeLines HTML-escapes text and turns newlines into <br>
func escapeLines(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}

// RenderGenericEmail generates branded HTML for a plain text message.
// The subject is displayed in the header banner.
func RenderGenericEmail(subject, bodyContent string) string {
	return render(subject, escapeLines(bodyContent))
}

// RenderActionEmail renders a message with a single call-to-action button
func RenderActionEmail(subject, bodyContent, actionLabel, actionURL string) string {
	inner := fmt.Sprintf(`<p>%s</p>
      <a href="%s" class="cta-button">%s</a>
      <p style="font-size: 12px; color: #9ca3af;">If the button does not work, copy this link into your browser:<br>%s</p>`,
		escapeLines(bodyContent),
		html.EscapeString(actionURL),
		html.EscapeString(actionLabel),
		html.EscapeString(actionURL))
	return render(subject, inner)
}
