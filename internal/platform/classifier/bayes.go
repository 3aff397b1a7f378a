package classifier

import (
	"math"
	"sort"
)

// naiveBayes is a multinomial naive Bayes model over TF-IDF features.
type naiveBayes struct {
	classes        []string
	classLogPrior  []float64
	featureLogProb [][]float64
}

// fitNaiveBayes estimates class priors and per-class feature
// log-probabilities with additive smoothing alpha. Classes are kept in
// lexical order.
func fitNaiveBayes(rows [][]float64, labels []string, nFeatures int, alpha float64) *naiveBayes {
	classIdx := make(map[string]int)
	for _, l := range labels {
		classIdx[l] = 0
	}
	classes := make([]string, 0, len(classIdx))
	for l := range classIdx {
		classes = append(classes, l)
	}
	sort.Strings(classes)
	for i, c := range classes {
		classIdx[c] = i
	}

	counts := make([]float64, len(classes))
	featureCount := make([][]float64, len(classes))
	for i := range featureCount {
		featureCount[i] = make([]float64, nFeatures)
	}
	for r, row := range rows {
		c := classIdx[labels[r]]
		counts[c]++
		for j, x := range row {
			featureCount[c][j] += x
		}
	}

	total := float64(len(rows))
	nb := &naiveBayes{
		classes:        classes,
		classLogPrior:  make([]float64, len(classes)),
		featureLogProb: make([][]float64, len(classes)),
	}
	for c := range classes {
		nb.classLogPrior[c] = math.Log(counts[c] / total)

		var sum float64
		for _, fc := range featureCount[c] {
			sum += fc + alpha
		}
		logSum := math.Log(sum)
		flp := make([]float64, nFeatures)
		for j, fc := range featureCount[c] {
			flp[j] = math.Log(fc+alpha) - logSum
		}
		nb.featureLogProb[c] = flp
	}
	return nb
}

// predict returns the index of the most probable class and the posterior
// probabilities of every class. Ties go to the lexically first class.
func (nb *naiveBayes) predict(row []float64) (int, []float64) {
	jll := make([]float64, len(nb.classes))
	maxLL := math.Inf(-1)
	best := 0
	for c := range nb.classes {
		ll := nb.classLogPrior[c]
		for j, x := range row {
			if x != 0 {
				ll += x * nb.featureLogProb[c][j]
			}
		}
		jll[c] = ll
		if ll > maxLL {
			maxLL = ll
			best = c
		}
	}

	var sum float64
	probs := make([]float64, len(jll))
	for c, ll := range jll {
		probs[c] = math.Exp(ll - maxLL)
		sum += probs[c]
	}
	for c := range probs {
		probs[c] /= sum
	}
	return best, probs
}
