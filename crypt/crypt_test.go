package crypt

import (
	"encoding/hex"
	"errors"
	"math/rand"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDecrypt(t *testing.T) {
	Convey("Given the classic RC4 test vectors", t, func() {
		vectors := []struct {
			key, plain, cipher string
		}{
			{"Key", "Plaintext", "bbf316e8d940af0ad3"},
			{"Wiki", "pedia", "1021bf0420"},
			{"Secret", "Attack at dawn", "45a01f645fc35b383552544b9bf5"},
		}

		for _, v := range vectors {
			Convey("key="+v.key, func() {
				want, _ := hex.DecodeString(v.cipher)

				got, err := Encrypt([]byte(v.plain), v.key)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, want)

				plain, err := Decrypt(want, v.key)
				So(err, ShouldBeNil)
				So(string(plain), ShouldEqual, v.plain)
			})
		}
	})

	Convey("Decrypt should undo Encrypt for arbitrary data and keys", t, func() {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 50; i++ {
			msg := make([]byte, rng.Intn(2048))
			rng.Read(msg)
			key := make([]byte, 1+rng.Intn(256))
			rng.Read(key)

			enc, err := Encrypt(msg, string(key))
			So(err, ShouldBeNil)
			dec, err := Decrypt(enc, string(key))
			So(err, ShouldBeNil)
			So(dec, ShouldResemble, msg)
		}
	})

	Convey("Decrypt should not modify its input", t, func() {
		in := []byte("manifest")
		_, err := Decrypt(in, "k")
		So(err, ShouldBeNil)
		So(string(in), ShouldEqual, "manifest")
	})

	Convey("Keys outside 1..256 bytes should be rejected", t, func() {
		_, err := Decrypt([]byte("x"), "")
		So(errors.Is(err, ErrKeySize), ShouldBeTrue)

		_, err = Decrypt([]byte("x"), strings.Repeat("k", 257))
		So(errors.Is(err, ErrKeySize), ShouldBeTrue)
	})
}
