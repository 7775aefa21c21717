package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

func TestCredentialCodec_EncodeDecode(t *testing.T) {
	key := newTestKey(t)
	codec := NewCredentialCodec(NewFieldCipher(NewAEADManager(), vaultDomain.AESGCM))

	testCases := []struct {
		name    string
		variant vaultDomain.Variant
		fields  map[string]string
	}{
		{
			name:    "address",
			variant: vaultDomain.VariantAddress,
			fields: map[string]string{
				"label":    "home",
				"city":     "Lisbon",
				"street":   "Rua Augusta 100",
				"zip_code": "1100-053",
				"state":    "Lisboa",
				"town":     "Baixa",
			},
		},
		{
			name:    "login",
			variant: vaultDomain.VariantLogin,
			fields: map[string]string{
				"service":         "github.com",
				"service_user_id": "octocat",
				"password":        "hunter2",
				"notes":           "work account",
			},
		},
		{
			name:    "payment",
			variant: vaultDomain.VariantPayment,
			fields: map[string]string{
				"card_holder":   "Jane Doe",
				"card_type":     "visa",
				"card_number":   "4111111111111111",
				"card_expiry":   "12/28",
				"security_code": "123",
			},
		},
		{
			name:    "secret",
			variant: vaultDomain.VariantSecret,
			fields: map[string]string{
				"service":         "prod-db",
				"service_user_id": "app",
				"password":        "s3cr3t",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := codec.Encode(tc.variant, tc.fields, key)
			require.NoError(t, err)

			for name, value := range encoded {
				if tc.variant.IsSensitive(name) {
					assert.NotEqual(t, tc.fields[name], value)
				} else {
					assert.Equal(t, tc.fields[name], value)
				}
			}

			decoded, err := codec.Decode(tc.variant, encoded, key)
			require.NoError(t, err)
			assert.Equal(t, tc.fields, decoded)
		})
	}
}

func TestCredentialCodec_Encode(t *testing.T) {
	key := newTestKey(t)
	codec := NewCredentialCodec(NewFieldCipher(NewAEADManager(), vaultDomain.AESGCM))

	t.Run("unknown variant", func(t *testing.T) {
		_, err := codec.Encode("passport", map[string]string{"city": "x"}, key)
		assert.ErrorIs(t, err, vaultDomain.ErrUnknownVariant)
	})

	t.Run("absent optional attributes stay absent", func(t *testing.T) {
		fields := map[string]string{
			"service":  "github.com",
			"password": "hunter2",
		}

		encoded, err := codec.Encode(vaultDomain.VariantLogin, fields, key)
		require.NoError(t, err)
		assert.Len(t, encoded, 2)
		assert.NotContains(t, encoded, "service_user_id")
	})

	t.Run("empty sensitive value is not encrypted", func(t *testing.T) {
		fields := map[string]string{
			"service":  "github.com",
			"password": "",
		}

		encoded, err := codec.Encode(vaultDomain.VariantLogin, fields, key)
		require.NoError(t, err)
		assert.Equal(t, "", encoded["password"])
	})
}

func TestCredentialCodec_Decode(t *testing.T) {
	key := newTestKey(t)
	codec := NewCredentialCodec(NewFieldCipher(NewAEADManager(), vaultDomain.AESGCM))

	t.Run("unknown variant", func(t *testing.T) {
		_, err := codec.Decode("passport", map[string]string{"city": "x"}, key)
		assert.ErrorIs(t, err, vaultDomain.ErrUnknownVariant)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		encoded, err := codec.Encode(vaultDomain.VariantLogin, map[string]string{
			"service":  "github.com",
			"password": "hunter2",
		}, key)
		require.NoError(t, err)

		_, err = codec.Decode(vaultDomain.VariantLogin, encoded, newTestKey(t))
		assert.ErrorIs(t, err, vaultDomain.ErrDecryptionFailed)
	})
}
