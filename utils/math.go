package utils

import "math"

func Round2(x float64) float64 { return math.Round(x*100) / 100 }

func Round1(x float64) float64 { return math.Round(x*10) / 10 }

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
