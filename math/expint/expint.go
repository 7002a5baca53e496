/*Package expint evaluates the exponential integrals Ei(x) and E_n(x).

The series and continued fraction expansions are the standard ones: the power
series for small arguments, Lentz's method for the continued fraction of E_n
and the asymptotic series of Ei for large arguments.
*/
package expint

import (
	"math"
)

const (
	// EulerGamma is the Euler-Mascheroni constant.
	EulerGamma = 0.57721566490153286060651209008240243

	maxIter = 1000
	eps     = 1e-16
	fpMin   = 1e-300
)

// eiSeriesMax is the argument above which Ei switches to its asymptotic
// series: -ln(eps).
var eiSeriesMax = -math.Log(eps)

// E1 returns the exponential integral E_1(x) = integral_x^inf e^-t / t dt.
func E1(x float64) float64 { return En(1, x) }

// En returns the generalized exponential integral
// E_n(x) = integral_1^inf e^(-xt) / t^n dt for n >= 0 and x >= 0.
//
// E_0(0) and E_1(0) diverge and are returned as +Inf. Invalid arguments
// return NaN.
func En(n int, x float64) float64 {
	switch {
	case n < 0 || x < 0 || math.IsNaN(x):
		return math.NaN()
	case x == 0:
		if n <= 1 {
			return math.Inf(+1)
		}
		return 1 / float64(n-1)
	case n == 0:
		return math.Exp(-x) / x
	case math.IsInf(x, +1):
		return 0
	}

	nm1 := n - 1
	if x > 1 {
		b := x + float64(n)
		c := 1 / fpMin
		d := 1 / b
		h := d
		for i := 1; i <= maxIter; i++ {
			a := -float64(i) * float64(nm1+i)
			b += 2
			d = 1 / (a*d + b)
			c = b + a/c
			del := c * d
			h *= del
			if math.Abs(del-1) < eps {
				break
			}
		}
		return h * math.Exp(-x)
	}

	var ans float64
	if nm1 != 0 {
		ans = 1 / float64(nm1)
	} else {
		ans = -math.Log(x) - EulerGamma
	}
	fact := 1.0
	for i := 1; i <= maxIter; i++ {
		fact *= -x / float64(i)
		var del float64
		if i != nm1 {
			del = -fact / float64(i-nm1)
		} else {
			psi := -EulerGamma
			for ii := 1; ii <= nm1; ii++ {
				psi += 1 / float64(ii)
			}
			del = fact * (-math.Log(x) + psi)
		}
		ans += del
		if math.Abs(del) < math.Abs(ans)*eps {
			break
		}
	}
	return ans
}

// Ei returns the exponential integral Ei(x), the Cauchy principal value of
// integral_-inf^x e^t / t dt. Ei(0) = -Inf.
func Ei(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case x == 0:
		return math.Inf(-1)
	case x < 0:
		return -E1(-x)
	case x < fpMin:
		return math.Log(x) + EulerGamma
	case x <= eiSeriesMax:
		return eiSeries(x)
	}
	return math.Exp(x) * eiAsymptotic(x)
}

// ScaledEi returns e^-x Ei(x) for x > 0 without overflowing for large x.
func ScaledEi(x float64) float64 {
	switch {
	case x <= 0 || math.IsNaN(x):
		return math.NaN()
	case x <= eiSeriesMax:
		return math.Exp(-x) * Ei(x)
	}
	return eiAsymptotic(x)
}

func eiSeries(x float64) float64 {
	sum, fact := 0.0, 1.0
	for k := 1; k <= maxIter; k++ {
		fact *= x / float64(k)
		term := fact / float64(k)
		sum += term
		if term < eps*sum {
			break
		}
	}
	return sum + math.Log(x) + EulerGamma
}

// eiAsymptotic returns e^-x Ei(x) from the asymptotic series, which is
// truncated at its smallest term.
func eiAsymptotic(x float64) float64 {
	sum, term := 0.0, 1.0
	for k := 1; k <= maxIter; k++ {
		prev := term
		term *= float64(k) / x
		if term < eps {
			break
		}
		if term < prev {
			sum += term
		} else {
			sum -= prev
			break
		}
	}
	return (1 + sum) / x
}
