package noise

import "math"

// sin is the fdlibm sine (s_sin.c with its reduction and kernels), the same
// routine browsers ship as Math.sin. math.Sin differs from it in the last bit
// for some arguments, and the seed stream multiplies every step by 10000, so
// a single ulp turns into a different permutation within a few draws.
//
// Every product that feeds an addition is wrapped in float64() so the
// compiler cannot fuse it into an FMA on arm64 or amd64 v3.
func sin(x float64) float64 {
	ix := highWord(x) & 0x7fffffff
	switch {
	case ix <= 0x3fe921fb:
		return kernelSin(x, 0, false)
	case ix >= 0x7ff00000:
		return x - x
	}

	n, y0, y1 := remPio2(x)
	switch n & 3 {
	case 0:
		return kernelSin(y0, y1, true)
	case 1:
		return kernelCos(y0, y1)
	case 2:
		return -kernelSin(y0, y1, true)
	default:
		return -kernelCos(y0, y1)
	}
}

func highWord(x float64) int32 { return int32(math.Float64bits(x) >> 32) }

func lowWord(x float64) uint32 { return uint32(math.Float64bits(x)) }

func fromWords(hi, lo uint32) float64 {
	return math.Float64frombits(uint64(hi)<<32 | uint64(lo))
}

var (
	s1 = fromWords(0xBFC55555, 0x55555549)
	s2 = fromWords(0x3F811111, 0x1110F8A6)
	s3 = fromWords(0xBF2A01A0, 0x19C161D5)
	s4 = fromWords(0x3EC71DE3, 0x57B1FE7D)
	s5 = fromWords(0xBE5AE5E6, 0x8A2B9CEB)
	s6 = fromWords(0x3DE5D93A, 0x5ACFD57C)

	c1 = fromWords(0x3FA55555, 0x5555554C)
	c2 = fromWords(0xBF56C16C, 0x16C15177)
	c3 = fromWords(0x3EFA01A0, 0x19CB1590)
	c4 = fromWords(0xBE927E4F, 0x809C52AD)
	c5 = fromWords(0x3E21EE9E, 0xBDB4B1C4)
	c6 = fromWords(0xBDA8FAE9, 0xBE8838D4)

	pio2_1  = fromWords(0x3FF921FB, 0x54400000) // first 33 bits of pi/2
	pio2_1t = fromWords(0x3DD0B461, 0x1A626331) // pi/2 - pio2_1
	pio2_2  = fromWords(0x3DD0B461, 0x1A600000) // second 33 bits
	pio2_2t = fromWords(0x3BA3198A, 0x2E037073)
	pio2_3  = fromWords(0x3BA3198A, 0x2E000000) // third 33 bits
	pio2_3t = fromWords(0x397B839A, 0x252049C1)
)

const (
	invPio2 = 6.36619772367581382433e-01
	two24   = 1.67772160000000000000e+07
	twon24  = 5.96046447753906250000e-08
)

// kernelSin is sin on [-pi/4, pi/4]; y is the tail of x when hasTail is set.
func kernelSin(x, y float64, hasTail bool) float64 {
	if highWord(x)&0x7fffffff < 0x3e400000 { // |x| < 2**-27
		return x
	}
	z := float64(x * x)
	v := float64(z * x)
	r := s2 + float64(z*(s3+float64(z*(s4+float64(z*(s5+float64(z*s6)))))))
	if !hasTail {
		return x + float64(v*(s1+float64(z*r)))
	}
	return x - ((float64(z*(float64(0.5*y)-float64(v*r))) - y) - float64(v*s1))
}

// kernelCos is cos on [-pi/4, pi/4] with tail y.
func kernelCos(x, y float64) float64 {
	ix := highWord(x) & 0x7fffffff
	if ix < 0x3e400000 {
		return 1
	}
	z := float64(x * x)
	r := float64(z * (c1 + float64(z*(c2+float64(z*(c3+float64(z*(c4+float64(z*(c5+float64(z*c6)))))))))))
	if ix < 0x3FD33333 { // |x| < 0.3
		return 1 - (float64(0.5*z) - (float64(z*r) - float64(x*y)))
	}
	var qx float64
	if ix > 0x3fe90000 { // |x| > 0.78125
		qx = 0.28125
	} else {
		qx = fromWords(uint32(ix-0x00200000), 0) // x/4
	}
	hz := float64(0.5*z) - qx
	a := 1 - qx
	return a - (hz - (float64(z*r) - float64(x*y)))
}

// npio2HighWords are the high words of n*pi/2 for n = 1..32.
var npio2HighWords = [32]int32{
	0x3FF921FB, 0x400921FB, 0x4012D97C, 0x401921FB, 0x401F6A7A, 0x4022D97C,
	0x4025FDBB, 0x402921FB, 0x402C463A, 0x402F6A7A, 0x4031475C, 0x4032D97C,
	0x40346B9C, 0x4035FDBB, 0x40378FDB, 0x403921FB, 0x403AB41B, 0x403C463A,
	0x403DD85A, 0x403F6A7A, 0x40407E4C, 0x4041475C, 0x4042106C, 0x4042D97C,
	0x4043A28C, 0x40446B9C, 0x404534AC, 0x4045FDBB, 0x4046C6CB, 0x40478FDB,
	0x404858EB, 0x404921FB,
}

// remPio2 reduces x to y0+y1 in [-pi/4, pi/4] and returns n with
// x = n*pi/2 + y0 + y1.
func remPio2(x float64) (n int, y0, y1 float64) {
	hx := highWord(x)
	ix := hx & 0x7fffffff

	if ix < 0x4002d97c { // |x| < 3pi/4, n = ±1
		if hx > 0 {
			z := x - pio2_1
			if ix != 0x3ff921fb {
				y0 = z - pio2_1t
				y1 = (z - y0) - pio2_1t
			} else { // near pi/2
				z -= pio2_2
				y0 = z - pio2_2t
				y1 = (z - y0) - pio2_2t
			}
			return 1, y0, y1
		}
		z := x + pio2_1
		if ix != 0x3ff921fb {
			y0 = z + pio2_1t
			y1 = (z - y0) + pio2_1t
		} else {
			z += pio2_2
			y0 = z + pio2_2t
			y1 = (z - y0) + pio2_2t
		}
		return -1, y0, y1
	}

	if ix <= 0x413921fb { // |x| <= 2**19 * pi/2
		t := math.Abs(x)
		n = int(int32(float64(t*invPio2) + 0.5))
		fn := float64(n)
		r := t - float64(fn*pio2_1)
		w := float64(fn * pio2_1t)
		if n < 32 && ix != npio2HighWords[n-1] {
			y0 = r - w
		} else {
			j := ix >> 20
			y0 = r - w
			if j-((highWord(y0)>>20)&0x7ff) > 16 {
				t = r
				w = float64(fn * pio2_2)
				r = t - w
				w = float64(fn*pio2_2t) - ((t - r) - w)
				y0 = r - w
				if j-((highWord(y0)>>20)&0x7ff) > 49 {
					t = r
					w = float64(fn * pio2_3)
					r = t - w
					w = float64(fn*pio2_3t) - ((t - r) - w)
					y0 = r - w
				}
			}
		}
		y1 = (r - y0) - w
		if hx < 0 {
			return -n, -y0, -y1
		}
		return n, y0, y1
	}

	// Large arguments: split |x| into three 24-bit chunks scaled by 2**-e0.
	e0 := int(ix>>20) - 1046
	z := fromWords(uint32(ix-int32(e0<<20)), lowWord(x))
	var tx [3]float64
	for i := 0; i < 2; i++ {
		tx[i] = float64(int32(z))
		z = float64((z - tx[i]) * two24)
	}
	tx[2] = z
	nx := 3
	for tx[nx-1] == 0 {
		nx--
	}
	n, y0, y1 = kernelRemPio2(tx[:nx], e0)
	if hx < 0 {
		return -n, -y0, -y1
	}
	return n, y0, y1
}

// twoOverPi holds 2/pi in 24-bit chunks.
var twoOverPi = [66]int32{
	0xA2F983, 0x6E4E44, 0x1529FC, 0x2757D1, 0xF534DD, 0xC0DB62,
	0x95993C, 0x439041, 0xFE5163, 0xABDEBB, 0xC561B7, 0x246E3A,
	0x424DD2, 0xE00649, 0x2EEA09, 0xD1921C, 0xFE1DEB, 0x1CB129,
	0xA73EE8, 0x8235F5, 0x2EBB44, 0x84E99C, 0x7026B4, 0x5F7E41,
	0x3991D6, 0x398353, 0x39F49C, 0x845F8B, 0xBDF928, 0x3B1FF8,
	0x97FFDE, 0x05980F, 0xEF2F11, 0x8B5A0A, 0x6D1F6D, 0x367ECF,
	0x27CB09, 0xB74F46, 0x3F669E, 0x5FEA2D, 0x7527BA, 0xC7EBE5,
	0xF17B3D, 0x0739F7, 0x8A5292, 0xEA6BFB, 0x5FB11F, 0x8D5D08,
	0x560330, 0x46FC7B, 0x6BABF0, 0xCFBC20, 0x9AF436, 0x1DA9E3,
	0x91615E, 0xE61B08, 0x659985, 0x5F14A0, 0x68408D, 0xFFD880,
	0x4D7327, 0x310606, 0x1556CA, 0x73A8C9, 0x60E27B, 0xC08C6B,
}

// pio2Chunks holds pi/2 in 24-bit chunks.
var pio2Chunks = [8]float64{
	1.57079625129699707031e+00,
	7.54978941586159635335e-08,
	5.39030252995776476554e-15,
	3.28200341580791294123e-22,
	1.27065575308067607349e-29,
	1.22933308981111328932e-36,
	2.73370053816464559624e-44,
	2.16741683877804819444e-51,
}

// kernelRemPio2 is the Payne-Hanek reduction from k_rem_pio2.c at double
// precision (prec = 2). x holds the 24-bit chunks of the input, scaled so
// that the input equals sum(x[i] * 2**(e0 - 24*i)).
func kernelRemPio2(x []float64, e0 int) (int, float64, float64) {
	const jk = 4
	const jp = jk

	var f, q, fq [20]float64
	var iq [20]int32

	jx := len(x) - 1
	jv := (e0 - 3) / 24
	if jv < 0 {
		jv = 0
	}
	q0 := e0 - 24*(jv+1)

	for i, j := 0, jv-jx; i <= jx+jk; i, j = i+1, j+1 {
		if j >= 0 {
			f[i] = float64(twoOverPi[j])
		}
	}
	for i := 0; i <= jk; i++ {
		fw := 0.0
		for j := 0; j <= jx; j++ {
			fw += float64(x[j] * f[jx+i-j])
		}
		q[i] = fw
	}

	jz := jk
	var (
		z     float64
		n, ih int32
	)
	for {
		// Distill q into iq, most significant chunk last.
		z = q[jz]
		for i, j := 0, jz; j > 0; i, j = i+1, j-1 {
			fw := float64(int32(float64(twon24 * z)))
			iq[i] = int32(z - float64(two24*fw))
			z = q[j-1] + fw
		}

		z = math.Ldexp(z, q0)
		z -= float64(8 * math.Floor(float64(z*0.125)))
		n = int32(z)
		z -= float64(n)
		ih = 0
		switch {
		case q0 > 0:
			i := iq[jz-1] >> (24 - q0)
			n += i
			iq[jz-1] -= i << (24 - q0)
			ih = iq[jz-1] >> (23 - q0)
		case q0 == 0:
			ih = iq[jz-1] >> 23
		case z >= 0.5:
			ih = 2
		}

		if ih > 0 { // fraction > 0.5: use 1 - fraction
			n++
			carry := false
			for i := 0; i < jz; i++ {
				j := iq[i]
				if !carry {
					if j != 0 {
						carry = true
						iq[i] = 0x1000000 - j
					}
				} else {
					iq[i] = 0xffffff - j
				}
			}
			switch q0 {
			case 1:
				iq[jz-1] &= 0x7fffff
			case 2:
				iq[jz-1] &= 0x3fffff
			}
			if ih == 2 {
				z = 1 - z
				if carry {
					z -= math.Ldexp(1, q0)
				}
			}
		}

		if z != 0 {
			break
		}
		var rest int32
		for i := jz - 1; i >= jk; i-- {
			rest |= iq[i]
		}
		if rest != 0 {
			break
		}
		// Total cancellation: pull in more bits of 2/pi and start over.
		k := 1
		for iq[jk-k] == 0 {
			k++
		}
		for i := jz + 1; i <= jz+k; i++ {
			f[jx+i] = float64(twoOverPi[jv+i])
			fw := 0.0
			for j := 0; j <= jx; j++ {
				fw += float64(x[j] * f[jx+i-j])
			}
			q[i] = fw
		}
		jz += k
	}

	if z == 0 {
		jz--
		q0 -= 24
		for iq[jz] == 0 {
			jz--
			q0 -= 24
		}
	} else {
		z = math.Ldexp(z, -q0)
		if z >= two24 {
			fw := float64(int32(float64(twon24 * z)))
			iq[jz] = int32(z - float64(two24*fw))
			jz++
			q0 += 24
			iq[jz] = int32(fw)
		} else {
			iq[jz] = int32(z)
		}
	}

	fw := math.Ldexp(1, q0)
	for i := jz; i >= 0; i-- {
		q[i] = float64(fw * float64(iq[i]))
		fw *= twon24
	}

	for i := jz; i >= 0; i-- {
		sum := 0.0
		for k := 0; k <= jp && k <= jz-i; k++ {
			sum += float64(pio2Chunks[k] * q[i+k])
		}
		fq[jz-i] = sum
	}

	fw = 0
	for i := jz; i >= 0; i-- {
		fw += fq[i]
	}
	y0 := fw
	fw = fq[0] - fw
	for i := 1; i <= jz; i++ {
		fw += fq[i]
	}
	y1 := fw
	if ih != 0 {
		y0, y1 = -y0, -y1
	}
	return int(n & 7), y0, y1
}
