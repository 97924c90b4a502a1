package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/pkg/sign"
)

func testQRAdapter() *QRAdapter {
	return NewQRAdapter(QRConfig{
		Address:         "https://pay.example.com/form",
		Secret:          "test-secret",
		ProductCode:     "STORETEST",
		CallbackBaseURL: "https://shop.example.com",
	}, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func qrCallback(t *testing.T, payload qrCallbackPayload) Callback {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Callback{Params: map[string]string{"data": base64.StdEncoding.EncodeToString(raw)}}
}

func signedPayload(a *QRAdapter, amount, txn string) qrCallbackPayload {
	return qrCallbackPayload{
		TransactionUUID: txn,
		TotalAmount:     amount,
		ProductCode:     "STORETEST",
		Status:          "COMPLETE",
		Signature: sign.HMACSHA256([]byte("test-secret"),
			fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s", amount, txn, "STORETEST")),
		RefID: "REF-1",
	}
}

func TestQRPrepareSignsFormFields(t *testing.T) {
	a := testQRAdapter()
	session, err := a.Prepare(context.Background(), PrepareRequest{
		OrderExternalID: "AB12CD34EF56",
		TransactionID:   "txn-1",
		Amount:          model.NewMoney(135000, model.CurrencyINR),
	})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example.com/form", session.RedirectURL)
	require.Equal(t, "1350", session.Fields["total_amount"])
	require.Equal(t, signedFieldNames, session.Fields["signed_field_names"])

	expected := sign.HMACSHA256([]byte("test-secret"),
		"total_amount=1350,transaction_uuid=txn-1,product_code=STORETEST")
	require.Equal(t, expected, session.Fields["signature"])
}

func TestQRVerifyAcceptsValidCallback(t *testing.T) {
	a := testQRAdapter()
	cb := qrCallback(t, signedPayload(a, "1350", "txn-1"))

	v, err := a.Verify(context.Background(), cb)
	require.NoError(t, err)
	require.Equal(t, "txn-1", v.TransactionID)
	require.Equal(t, int64(135000), v.Amount)
	require.Equal(t, "REF-1", v.ExternalRef)
}

func TestQRVerifyNormalizesAmountFormatting(t *testing.T) {
	// The gateway signs over "1350" but may echo "1350.00" or "1,350.00"
	// in the callback; all forms must verify.
	a := testQRAdapter()
	for _, echoed := range []string{"1350", "1350.0", "1350.00", "1,350.00"} {
		payload := signedPayload(a, "1350", "txn-1")
		payload.TotalAmount = echoed
		v, err := a.Verify(context.Background(), qrCallback(t, payload))
		require.NoError(t, err, "amount form %q", echoed)
		require.Equal(t, int64(135000), v.Amount)
	}
}

func TestQRVerifyRejectsForgedSignature(t *testing.T) {
	a := testQRAdapter()
	payload := signedPayload(a, "1350", "txn-1")
	payload.Signature = sign.HMACSHA256([]byte("wrong-secret"),
		"total_amount=1350,transaction_uuid=txn-1,product_code=STORETEST")

	_, err := a.Verify(context.Background(), qrCallback(t, payload))
	require.ErrorIs(t, err, domainErrors.ErrSignatureInvalid)
}

func TestQRVerifyRejectsTamperedAmount(t *testing.T) {
	a := testQRAdapter()
	payload := signedPayload(a, "1350", "txn-1")
	payload.TotalAmount = "1" // signature was computed over 1350

	_, err := a.Verify(context.Background(), qrCallback(t, payload))
	require.ErrorIs(t, err, domainErrors.ErrSignatureInvalid)
}

func TestQRVerifyRejectsIncompleteStatus(t *testing.T) {
	a := testQRAdapter()
	payload := signedPayload(a, "1350", "txn-1")
	payload.Status = "PENDING"

	_, err := a.Verify(context.Background(), qrCallback(t, payload))
	require.ErrorIs(t, err, domainErrors.ErrPaymentDeclined)
}

func TestQRVerifyIsRepeatable(t *testing.T) {
	a := testQRAdapter()
	cb := qrCallback(t, signedPayload(a, "1350", "txn-1"))

	first, err := a.Verify(context.Background(), cb)
	require.NoError(t, err)
	second, err := a.Verify(context.Background(), cb)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestQRCallbackTransactionID(t *testing.T) {
	a := testQRAdapter()
	cb := qrCallback(t, signedPayload(a, "1350", "txn-9"))

	txn, err := a.CallbackTransactionID(cb)
	require.NoError(t, err)
	require.Equal(t, "txn-9", txn)

	_, err = a.CallbackTransactionID(Callback{Params: map[string]string{}})
	require.Error(t, err)

	_, err = a.CallbackTransactionID(Callback{Params: map[string]string{"data": "!!!"}})
	require.Error(t, err)
}
