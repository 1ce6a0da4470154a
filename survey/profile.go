// ABOUTME: Risk-prevention profile scoring over finalized answers
// ABOUTME: Weighted indicators normalized to a percentage, then classified
package survey

import "github.com/grupoethernos/campo/models"

// Score accumulates the weighted indicator credits and the maximum
// attainable total (10 for the current script). Missing or empty answers
// simply earn no credit.
//
// Only a literal affirmative on the five protection indicators counts;
// the "would acquire" sub-answers measure opportunity, not coverage, and
// are intentionally ignored here. Flagged with product as a possible gap.
func Score(f models.FormData) (score, total float64) {
	total += 2
	switch f.PerfilPreferencia {
	case models.PrefPrevenirAntes:
		score += 2
	case models.PrefNuncaPensou:
		score += 0.5
	}

	total += 2
	switch f.PreparacaoFamilia {
	case models.PrepPreparada:
		score += 2
	case models.PrepParcial:
		score += 1
	}

	for _, v := range []string{
		f.SeguroResidencial,
		f.SeguroVeicular,
		f.PlanoSaude,
		f.SeguroVida,
		f.PlanoFunerario,
	} {
		total++
		if v == models.Sim {
			score++
		}
	}

	total++
	switch f.InteresseConhecer {
	case models.Sim:
		score++
	case models.Talvez:
		score += 0.5
	}

	return score, total
}

// CalculateProfile classifies finalized answers by score percentage:
// >= 75% Preventivo, >= 40% Parcialmente preventivo, otherwise Reativo.
func CalculateProfile(f models.FormData) models.ProfileType {
	score, total := Score(f)
	percentage := score / total * 100

	switch {
	case percentage >= 75:
		return models.ProfilePreventivo
	case percentage >= 40:
		return models.ProfileParcial
	default:
		return models.ProfileReativo
	}
}
