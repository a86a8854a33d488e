package valuation

import "valuator/internal/domain"

// SensitivityFactors are the low, base and high multipliers applied to
// requiredROI (rows) and exitMultiple (columns).
var SensitivityFactors = [3]float64{0.8, 1.0, 1.2}

// SensitivityMatrix holds pre-money values; [1][1] is the base case.
type SensitivityMatrix [3][3]float64

func Sensitivity(in domain.VCMethodInputs) SensitivityMatrix {
	var m SensitivityMatrix
	for i, roiFactor := range SensitivityFactors {
		for j, multFactor := range SensitivityFactors {
			scenario := in
			scenario.RequiredROI = in.RequiredROI * roiFactor
			scenario.ExitMultiple = in.ExitMultiple * multFactor
			m[i][j] = VC(scenario).PreMoney
		}
	}
	return m
}
