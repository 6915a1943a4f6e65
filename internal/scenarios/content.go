package scenarios

// SampleDocument returns the markdown document uploaded for the file-search
// scenario. The content only needs to be plausible enough for the service to
// index and quote.
func SampleDocument() string {
	return `# Contoso Galaxy Innovations — Product Overview

## Smart Eyewear

The Contoso Lens line pairs a transparent display with an on-frame assistant.
Battery life is rated at 14 hours of mixed use. All models ship with a
two-year hardware warranty.

## Pricing

| Model        | Price (USD) |
|--------------|-------------|
| Lens Core    | 299         |
| Lens Pro     | 499         |
| Lens Studio  | 899         |

Volume discounts start at 50 units: 10% off list, negotiated above 500 units.

## Support

Firmware updates are released quarterly. Security patches are pushed out of
band within 72 hours of disclosure. Support tickets are answered within one
business day for Pro and Studio customers.
`
}
