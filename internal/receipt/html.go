package receipt

import (
	"bytes"
	"fmt"
	"html/template"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(`<html>
  <head>
    <title>Receipt</title>
    <style>
      body { font-family: 'Courier New', Courier, monospace; width: 302px; margin: 0; padding: 5px; font-size: 10px; line-height: 1.2; }
      h2 { text-align: center; font-size: 14px; font-weight: bold; margin: 0 0 5px 0; }
      .center { text-align: center; }
      .header { display: flex; justify-content: space-between; margin-bottom: 5px; width: 100%; }
      .header-left { text-align: left; max-width: 50%; overflow: hidden; text-overflow: ellipsis; }
      .header-right { text-align: right; max-width: 50%; white-space: nowrap; overflow: hidden; text-overflow: ellipsis; }
      p { margin: 2px 0; overflow: hidden; text-overflow: ellipsis; }
      table { width: 100%; border-collapse: collapse; margin-top: 5px; }
      th, td { padding: 2px; text-align: left; font-size: 10px; }
      th { font-weight: bold; }
      .divider { border-top: 1px dashed #000; margin: 5px 0; }
      .summary { margin-top: 5px; }
      .summary div { display: flex; justify-content: space-between; }
      .payment-details { margin-top: 5px; }
      @media print {
        @page { margin: 0; size: 80mm auto; }
        body { margin: 0; padding: 5px; }
      }
    </style>
  </head>
  <body>
    <h2>{{.BranchName}}</h2>
    <p class="center">{{.BranchAddress}}</p>
    <p class="center">Phone: {{.BranchPhone}}</p>
    <p class="center">Bill No: {{.BillNo}}</p>
    {{- if .TableNumber}}
    <p class="center">Table: {{.TableNumber}}</p>
    {{- end}}
    <div class="header">
      <div class="header-left">
        <p>Date: {{.DateTime}}</p>
        <p>Manager: {{.Manager}}, Waiter: {{.Waiter}}</p>
      </div>
      <div class="header-right">
        <p>Cashier: {{.Cashier}}</p>
      </div>
    </div>
    <div class="divider"></div>
    <table>
      <thead>
        <tr>
          <th style="width: 10%;">SL</th>
          <th style="width: 40%;">Description</th>
          <th style="width: 15%;">MRP</th>
          <th style="width: 15%;">Qty</th>
          <th style="width: 20%;">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{- range .Rows}}
        <tr>
          <td>{{.SL}}</td>
          <td style="white-space: nowrap; overflow: hidden; text-overflow: ellipsis;">{{.Description}}</td>
          <td>{{.MRP}}</td>
          <td>{{.Qty}}</td>
          <td>{{.Amount}}</td>
        </tr>
        {{- end}}
      </tbody>
    </table>
    <div class="divider"></div>
    <div class="summary">
      <div><span>Tot Qty:</span><span>{{.TotalQty}}</span></div>
      <div><span>Tot Items:</span><span>{{.TotalItems}}</span></div>
      <div><span>Total Amount:</span><span>{{.TotalAmount}}</span></div>
      <div><span>SGST:</span><span>{{.SGST}}</span></div>
      <div><span>CGST:</span><span>{{.CGST}}</span></div>
      <div><span>Round Off:</span><span>{{.RoundOff}}</span></div>
      <div><span>Net Amt:</span><span>{{.NetAmount}}</span></div>
    </div>
    <div class="payment-details">
      <p>Payment Details:</p>
      <p>{{.PaymentMethod}} - {{.NetAmount}}</p>
      <p>Tender: {{.Tender}}</p>
      <p>Balance: {{.Balance}}</p>
    </div>
    {{- if .Delivery}}
    <p>Delivery: {{.Delivery}}</p>
    {{- end}}
  </body>
</html>
`))

// HTML renders the receipt page.
func HTML(d Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, Build(d)); err != nil {
		return nil, fmt.Errorf("render receipt html: %w", err)
	}
	return buf.Bytes(), nil
}
