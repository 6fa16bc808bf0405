package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PIX copy-paste codes follow the EMV QRCPS-MPM TLV layout: a sequence
// of id + two-digit length + value fields, terminated by a CRC16 over
// the whole payload. This is the sandbox issuer; a real PSP would
// return its own code.
const (
	pixGUI          = "br.gov.bcb.pix"
	pixMerchantName = "MANDADO SERVICOS"
	pixMerchantCity = "SAO PAULO"
)

// GeneratePixCode builds a PIX copy-paste code for a recharge charge.
// The charge ID doubles as the transaction identifier.
func GeneratePixCode(chargeID string, amount decimal.Decimal) string {
	txid := strings.ReplaceAll(chargeID, "-", "")
	if len(txid) > 25 {
		txid = txid[:25]
	}

	merchantAccount := emvField("00", pixGUI) + emvField("01", chargeID)

	var b strings.Builder
	b.WriteString(emvField("00", "01"))            // Payload format indicator
	b.WriteString(emvField("26", merchantAccount)) // Merchant account information
	b.WriteString(emvField("52", "0000"))          // Merchant category code
	b.WriteString(emvField("53", "986"))           // Currency: BRL
	b.WriteString(emvField("54", amount.StringFixed(2)))
	b.WriteString(emvField("58", "BR"))
	b.WriteString(emvField("59", pixMerchantName))
	b.WriteString(emvField("60", pixMerchantCity))
	b.WriteString(emvField("62", emvField("05", txid)))
	b.WriteString("6304") // CRC field header; value is the CRC of everything up to here

	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16CCITT([]byte(payload)))
}

func emvField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// crc16CCITT computes CRC16/CCITT-FALSE (poly 0x1021, init 0xFFFF),
// the checksum the PIX spec mandates.
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
