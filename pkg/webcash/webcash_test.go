package webcash

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
)

const feedbeefHash = "32549bff6d8404c4d121b589f4d24ac6416ed48c25163e1f08d92d67ca0bb0b3"

func TestDeserialize_Secret(t *testing.T) {
	tests := []struct {
		in     string
		amount string
	}{
		{"e100:secret:feedbeef", "100"},
		{"e1:secret:feedbeef", "1"},
		{"1:secret:feedbeef", "1"},
		{"e3.003:secret:feedbeef", "3.003"},
	}
	for _, tt := range tests {
		wc, err := Deserialize(tt.in)
		if err != nil {
			t.Fatalf("Deserialize(%q) error: %v", tt.in, err)
		}
		sk, ok := wc.(SecretWebcash)
		if !ok {
			t.Fatalf("Deserialize(%q) = %T, want SecretWebcash", tt.in, wc)
		}
		if sk.Secret != "feedbeef" {
			t.Errorf("secret = %q, want feedbeef", sk.Secret)
		}
		if !sk.Amount.Equal(types.MustAmount(tt.amount)) {
			t.Errorf("amount = %s, want %s", sk.Amount, tt.amount)
		}
	}
}

func TestDeserialize_Public(t *testing.T) {
	wc, err := Deserialize("e15.05:public:feedbeef")
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}
	pk, ok := wc.(PublicWebcash)
	if !ok {
		t.Fatalf("Deserialize() = %T, want PublicWebcash", wc)
	}
	want := PublicWebcash{Amount: types.MustAmount("15.05"), Hash: "feedbeef"}
	if pk.Hash != want.Hash || !pk.Amount.Equal(want.Amount) {
		t.Errorf("Deserialize() = %+v, want %+v", pk, want)
	}
}

func TestDeserialize_FormatErrors(t *testing.T) {
	tests := []string{
		"invalid_format",
		"e100:unknown:feedbeef",
		"e100:secret",
		"e100:secret:",
		"e100:secret:feed:beef",
		"e500e:secret:feedbeef",
		"ee100:secret:feedbeef",
		"e:secret:feedbeef",
		"abc:secret:feedbeef",
		"e-5:secret:feedbeef",
	}
	for _, in := range tests {
		_, err := Deserialize(in)
		if !errors.Is(err, ErrFormat) {
			t.Errorf("Deserialize(%q) error = %v, want ErrFormat", in, err)
		}
	}
}

func TestDeserialize_Precision(t *testing.T) {
	_, err := Deserialize("e3.123456789:secret:feedbeef")
	if !errors.Is(err, types.ErrPrecision) {
		t.Errorf("error = %v, want ErrPrecision", err)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"e1", "1"},
		{"e500", "500"},
		{"e1.05", "1.05"},
		{"100:secret:feedbeef", "100"},
		{"e100:secret:feedbeef", "100"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", tt.in, err)
		}
		if !got.Equal(types.MustAmount(tt.want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"e500e", "e500.00e", "e100.00e", "ee100", "e", "5e"} {
		if _, err := ParseAmount(in); !errors.Is(err, ErrFormat) {
			t.Errorf("ParseAmount(%q) error = %v, want ErrFormat", in, err)
		}
	}
}

func TestSecret_String(t *testing.T) {
	sk := NewSecret(types.MustAmount("1.0"), "feedbeef")
	if got := sk.String(); got != "e1:secret:feedbeef" {
		t.Errorf("String() = %q, want e1:secret:feedbeef", got)
	}
	pk := PublicWebcash{Amount: types.MustAmount("1.0"), Hash: "feedbeef"}
	if got := pk.String(); got != "e1:public:feedbeef" {
		t.Errorf("String() = %q, want e1:public:feedbeef", got)
	}
}

func TestSecret_RoundTrip(t *testing.T) {
	sk := NewSecret(types.AmountFromInt(100), "feedbeef")
	got, err := DeserializeSecret(sk.String())
	if err != nil {
		t.Fatalf("DeserializeSecret() error: %v", err)
	}
	if got.Secret != sk.Secret || !got.Amount.Equal(sk.Amount) {
		t.Errorf("round trip = %+v, want %+v", got, sk)
	}
}

func TestSecret_ToPublic(t *testing.T) {
	sk := NewSecret(types.MustAmount("1.0"), "feedbeef")
	pk := sk.ToPublic()
	if pk.Hash != feedbeefHash {
		t.Errorf("hash = %s, want %s", pk.Hash, feedbeefHash)
	}
	if !pk.Amount.Equal(sk.Amount) {
		t.Errorf("public amount = %s, want %s", pk.Amount, sk.Amount)
	}
}

func TestEqual(t *testing.T) {
	sk := NewSecret(types.AmountFromInt(1), "feedbeef")
	if !Equal(sk, sk.ToPublic()) {
		t.Error("secret should equal its public form")
	}
	if !Equal(sk.ToPublic(), sk) {
		t.Error("public should equal its secret form")
	}
	if Equal(sk, NewSecret(types.AmountFromInt(1), "deadbeef")) {
		t.Error("different secrets should not be equal")
	}
	if Equal(sk, nil) {
		t.Error("nil should not be equal")
	}
}

func TestDeserializeSecret_RejectsPublic(t *testing.T) {
	_, err := DeserializeSecret("e1:public:feedbeef")
	if !errors.Is(err, ErrNotSecret) || !errors.Is(err, ErrFormat) {
		t.Errorf("error = %v, want ErrNotSecret", err)
	}
	_, err = DeserializePublic("e1:secret:feedbeef")
	if !errors.Is(err, ErrNotPublic) {
		t.Errorf("error = %v, want ErrNotPublic", err)
	}
}

func TestNewRandomSecret(t *testing.T) {
	amount := types.MustAmount("100.0")
	a, err := NewRandomSecret(amount)
	if err != nil {
		t.Fatalf("NewRandomSecret() error: %v", err)
	}
	b, _ := NewRandomSecret(amount)
	if len(a.Secret) != 2*SecretSize {
		t.Errorf("secret length = %d, want %d", len(a.Secret), 2*SecretSize)
	}
	if a.Secret == b.Secret {
		t.Error("two random secrets should differ")
	}
	if !strings.HasPrefix(a.String(), "e100:secret:") {
		t.Errorf("String() = %s", a.String())
	}
}

func TestHealthStatus_Unmarshal(t *testing.T) {
	body := `{"status":"success","results":{
		"e1:public:aa":{"spent":false,"amount":"1E-7"},
		"e1:public:bb":{"spent":true,"amount":"2"},
		"e1:public:cc":{"spent":null,"amount":null}}}`

	var resp HealthCheckResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	aa := resp.Results["e1:public:aa"]
	if !aa.Unspent() || aa.Amount == nil || aa.Amount.String() != "0.0000001" {
		t.Errorf("aa = %+v", aa)
	}
	if bb := resp.Results["e1:public:bb"]; !bb.Known() || bb.Unspent() {
		t.Errorf("bb = %+v", bb)
	}
	if cc := resp.Results["e1:public:cc"]; cc.Known() || cc.Amount != nil {
		t.Errorf("cc = %+v", cc)
	}

	bad := `{"results":{"e1:public:aa":{"spent":"maybe","amount":"1"}}}`
	if err := json.Unmarshal([]byte(bad), &resp); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Unmarshal(bad status) error = %v, want ErrInvalidStatus", err)
	}
}

func TestHealthStatus_BadAmount(t *testing.T) {
	body := `{"status":"success","results":{
		"e1:public:aa":{"spent":false,"amount":"3"},
		"e1:public:bb":{"spent":true,"amount":"0.000000001"},
		"e1:public:cc":{"spent":null,"amount":"junk"}}}`

	var resp HealthCheckResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if aa := resp.Results["e1:public:aa"]; aa.Amount == nil || aa.Amount.String() != "3" {
		t.Errorf("aa = %+v", aa)
	}
	if bb := resp.Results["e1:public:bb"]; !bb.Known() || bb.Unspent() || bb.Amount != nil {
		t.Errorf("bb = %+v", bb)
	}
	if cc := resp.Results["e1:public:cc"]; cc.Known() || cc.Amount != nil {
		t.Errorf("cc = %+v", cc)
	}

	unspent := `{"results":{"e1:public:aa":{"spent":false,"amount":"junk"}}}`
	if err := json.Unmarshal([]byte(unspent), &resp); err == nil {
		t.Error("Unmarshal(unspent with bad amount) succeeded")
	}
}

func TestLegalese(t *testing.T) {
	var l Legalese
	if l.Accepted() {
		t.Error("zero Legalese should not be accepted")
	}
	no := false
	if (Legalese{Terms: &no}).Accepted() {
		t.Error("terms=false should not be accepted")
	}
	if !AcceptedLegalese().Accepted() {
		t.Error("AcceptedLegalese() should be accepted")
	}
	data, _ := json.Marshal(Legalese{})
	if string(data) != `{"terms":null}` {
		t.Errorf("Marshal() = %s", data)
	}
}
