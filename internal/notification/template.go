package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"
)

// OrderEmailData is everything the two settlement emails need, snapshotted
// from the settled order.
type OrderEmailData struct {
	OrderID       string
	Reference     string
	CustomerName  string
	CustomerEmail string
	Items         []OrderEmailItem
	Subtotal      float64
	DeliveryFee   float64
	Total         float64
	ShippingAddr  string
}

type OrderEmailItem struct {
	Title string
	Qty   int
	Price float64
	Size  *string
}

var templateFuncs = template.FuncMap{
	"naira": formatNaira,
	"year":  func() int { return time.Now().Year() },
	"itemLabel": func(item OrderEmailItem) string {
		if item.Size != nil && *item.Size != "" {
			return fmt.Sprintf("%s (Size: %s)", item.Title, *item.Size)
		}
		return item.Title
	},
}

// formatNaira renders an amount like 12,500.5 as "₦12,500.50" (whole amounts
// drop the decimals, matching the storefront's display). Rounding happens in
// integer cents so a fraction near 1 carries into the whole part.
func formatNaira(amount float64) string {
	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	s := strconv.FormatInt(whole, 10)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "₦" + strings.Join(parts, ",")

	if frac > 0 {
		out += fmt.Sprintf(".%02d", frac)
	}
	return out
}

var customerEmailTmpl = template.Must(template.New("customer").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Order Confirmation</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #1f2937; margin: 0; padding: 0; background-color: #f3f4f6;">
  <div style="max-width: 600px; margin: 0 auto; padding: 40px 20px;">
    <div style="background: white; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
      <div style="background: linear-gradient(135deg, #1f2937 0%, #374151 100%); padding: 32px; text-align: center;">
        <h1 style="color: white; margin: 0; font-size: 24px; font-weight: 700;">Order Confirmed!</h1>
        <p style="color: #d1d5db; margin: 8px 0 0 0; font-size: 14px;">Thank you for your purchase</p>
      </div>
      <div style="padding: 32px;">
        <p style="margin: 0 0 16px 0;">Hi {{.CustomerName}},</p>
        <p style="margin: 0 0 24px 0;">Your order has been confirmed and is being processed. Here are your order details:</p>
        <div style="background: #f9fafb; border-radius: 8px; padding: 16px; margin-bottom: 24px;">
          <p style="margin: 0 0 8px 0;"><strong>Order ID:</strong> {{.OrderID}}</p>
          <p style="margin: 0;"><strong>Reference:</strong> {{.Reference}}</p>
        </div>
        <table style="width: 100%; border-collapse: collapse; margin-bottom: 24px;">
          <thead>
            <tr style="background: #f3f4f6;">
              <th style="padding: 12px; text-align: left; font-weight: 600;">Item</th>
              <th style="padding: 12px; text-align: center; font-weight: 600;">Qty</th>
              <th style="padding: 12px; text-align: right; font-weight: 600;">Price</th>
            </tr>
          </thead>
          <tbody>
            {{range .Items}}
            <tr>
              <td style="padding: 12px; border-bottom: 1px solid #e5e7eb;">{{itemLabel .}}</td>
              <td style="padding: 12px; border-bottom: 1px solid #e5e7eb; text-align: center;">{{.Qty}}</td>
              <td style="padding: 12px; border-bottom: 1px solid #e5e7eb; text-align: right;">{{naira .Price}}</td>
            </tr>
            {{end}}
          </tbody>
        </table>
        <div style="border-top: 2px solid #e5e7eb; padding-top: 16px;">
          <div style="display: flex; justify-content: space-between; margin-bottom: 8px;">
            <span style="color: #6b7280;">Subtotal:</span>
            <span>{{naira .Subtotal}}</span>
          </div>
          <div style="display: flex; justify-content: space-between; margin-bottom: 8px;">
            <span style="color: #6b7280;">Delivery Fee:</span>
            <span>{{naira .DeliveryFee}}</span>
          </div>
          <div style="display: flex; justify-content: space-between; font-size: 18px; font-weight: 700; margin-top: 12px; padding-top: 12px; border-top: 1px solid #e5e7eb;">
            <span>Total:</span>
            <span style="color: #059669;">{{naira .Total}}</span>
          </div>
        </div>
        <div style="margin-top: 24px; padding: 16px; background: #f9fafb; border-radius: 8px;">
          <h3 style="margin: 0 0 8px 0; font-size: 14px; font-weight: 600; color: #374151;">Shipping Address</h3>
          <p style="margin: 0; color: #6b7280;">{{.ShippingAddr}}</p>
        </div>
      </div>
      <div style="padding: 24px 32px; background: #f9fafb; text-align: center; border-top: 1px solid #e5e7eb;">
        <p style="margin: 0 0 8px 0; font-size: 14px; color: #6b7280;">Need help? Contact us at support@sneakerwears.com</p>
        <p style="margin: 0; font-size: 12px; color: #9ca3af;">&copy; {{year}} SneakerWears. All rights reserved.</p>
      </div>
    </div>
  </div>
</body>
</html>
`))

var ownerEmailTmpl = template.Must(template.New("owner").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #1f2937; padding: 20px;">
  <h1 style="color: #059669;">New Order Received!</h1>
  <p><strong>Order ID:</strong> {{.OrderID}}</p>
  <p><strong>Customer:</strong> {{.CustomerName}} ({{.CustomerEmail}})</p>
  <p><strong>Total:</strong> {{naira .Total}}</p>
  <p><strong>Reference:</strong> {{.Reference}}</p>
  <h3>Items:</h3>
  <ul>
    {{range .Items}}<li>{{.Title}} x{{.Qty}} - {{naira .Price}}</li>{{end}}
  </ul>
  <h3>Shipping Address:</h3>
  <p>{{.ShippingAddr}}</p>
  <hr>
  <p style="color: #6b7280; font-size: 12px;">This is an automated notification from SneakerWears.</p>
</body>
</html>
`))

func renderCustomerEmail(data OrderEmailData) (string, error) {
	var buf bytes.Buffer
	if err := customerEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderOwnerEmail(data OrderEmailData) (string, error) {
	var buf bytes.Buffer
	if err := ownerEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
