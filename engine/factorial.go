package engine

// factorialFixed[i] is i! for i in [0,20], computed once at package
// init the same way factorial.rs's FACTORIAL_FIXED lazy_static does,
// exact because 20! still fits in an int64.
var factorialFixed [21]int64

// factorialFloat[i] is an approximation of i! for i in [0,170],
// computed once at package init by repeated float multiplication, the
// same cumulative approach factorial.rs's FACTORIAL_FLOAT lazy_static
// uses. 171! overflows float64, so the table stops at 170.
var factorialFloat [171]float64

func init() {
	factorialFixed[0] = 1
	for i := int64(1); i <= 20; i++ {
		factorialFixed[i] = factorialFixed[i-1] * i
	}
	factorialFloat[0] = 1
	factorialFloat[1] = 1
	for n := 2; n <= 170; n++ {
		factorialFloat[n] = factorialFloat[n-1] * float64(n)
	}
}

// factorialExact returns n! for n in [0,20], matching factorial.rs's
// factorial(). ok is false outside that range.
func factorialExact(n int64) (int64, bool) {
	if n < 0 || n > 20 {
		return 0, false
	}
	return factorialFixed[n], true
}

// factorialApprox returns an approximation of n! for n in [0,170],
// matching factorial.rs's factorial_approx(). ok is false outside
// that range.
func factorialApprox(n int64) (float64, bool) {
	if n < 0 || n > 170 {
		return 0, false
	}
	return factorialFloat[n], true
}
