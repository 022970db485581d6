// Package threshold implements Shamir secret sharing over the secp256k1
// prime field for 32-byte secrets, used to split a content encryption
// key across recipients so that any k of n can reconstruct it.
//
// Field arithmetic uses math/big rather than a curve-specific field
// element type (decred/dcrd/dcrec/secp256k1's FieldVal, used elsewhere
// in this dependency set) — see DESIGN.md for why that substitution
// wasn't made here.
package threshold

import (
	"crypto/rand"
	"math/big"

	"github.com/allisson/dataguardian/internal/dgerrors"
)

// Share is one point (x, y) on the sharing polynomial. X ranges over
// 1..255; Y is reduced modulo the field prime.
type Share struct {
	X byte
	Y [32]byte
}

// fieldPrime is the secp256k1 field prime:
// 2^256 - 2^32 - 977.
var fieldPrime, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F", 16,
)

// Split divides secret into n shares such that any k of them
// reconstruct it, and any k-1 reveal nothing. Requires 1 < k <= n <= 255.
func Split(secret [32]byte, n, k int) ([]Share, error) {
	if k <= 1 || n < k || n > 255 {
		return nil, dgerrors.InvalidParameter("threshold requires 1 < k <= n <= 255")
	}

	coeffs := make([]*big.Int, k)
	coeffs[0] = new(big.Int).SetBytes(secret[:])
	coeffs[0].Mod(coeffs[0], fieldPrime)

	for i := 1; i < k; i++ {
		c, err := rand.Int(rand.Reader, fieldPrime)
		if err != nil {
			return nil, dgerrors.IoError("random coefficient generation", err)
		}
		coeffs[i] = c
	}

	shares := make([]Share, n)
	for i := 0; i < n; i++ {
		x := byte(i + 1)
		y := evalPoly(coeffs, int64(x))

		shares[i].X = x
		yBytes := y.FillBytes(make([]byte, 32))
		copy(shares[i].Y[:], yBytes)
	}

	return shares, nil
}

// Combine reconstructs the secret from shares using Lagrange
// interpolation at x=0. At least k distinct-x shares must be supplied;
// extras beyond k are ignored in favor of the first k in the slice.
func Combine(shares []Share, k int) ([32]byte, error) {
	var out [32]byte
	if k <= 1 {
		return out, dgerrors.InvalidParameter("threshold k must be greater than 1")
	}
	if len(shares) < k {
		return out, dgerrors.InvalidCiphertext("insufficient shares for threshold reconstruction")
	}

	used := shares[:k]
	secret := big.NewInt(0)

	for i, si := range used {
		xi := big.NewInt(int64(si.X))
		yi := new(big.Int).SetBytes(si.Y[:])

		num := big.NewInt(1)
		den := big.NewInt(1)

		for j, sj := range used {
			if i == j {
				continue
			}
			xj := big.NewInt(int64(sj.X))

			// num *= (0 - xj) = -xj
			num.Mul(num, new(big.Int).Neg(xj))
			num.Mod(num, fieldPrime)

			// den *= (xi - xj)
			diff := new(big.Int).Sub(xi, xj)
			diff.Mod(diff, fieldPrime)
			den.Mul(den, diff)
			den.Mod(den, fieldPrime)
		}

		denInv := modInverse(den)
		term := new(big.Int).Mul(yi, num)
		term.Mul(term, denInv)
		term.Mod(term, fieldPrime)

		secret.Add(secret, term)
		secret.Mod(secret, fieldPrime)
	}

	secretBytes := secret.FillBytes(make([]byte, 32))
	copy(out[:], secretBytes)
	return out, nil
}

// evalPoly evaluates the polynomial with the given coefficients (lowest
// degree first) at x, modulo the field prime.
func evalPoly(coeffs []*big.Int, x int64) *big.Int {
	result := big.NewInt(0)
	xBig := big.NewInt(x)
	power := big.NewInt(1)

	for _, c := range coeffs {
		term := new(big.Int).Mul(c, power)
		result.Add(result, term)
		result.Mod(result, fieldPrime)

		power.Mul(power, xBig)
		power.Mod(power, fieldPrime)
	}

	return result
}

// modInverse computes a^-1 mod fieldPrime via Fermat's little theorem:
// a^(p-2) mod p, which is valid since fieldPrime is prime and a != 0 mod p.
func modInverse(a *big.Int) *big.Int {
	exp := new(big.Int).Sub(fieldPrime, big.NewInt(2))
	return new(big.Int).Exp(a, exp, fieldPrime)
}
