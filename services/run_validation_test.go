package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/movipadel/tornei-app/models"
)

func sp(s string) *string { return &s }

func confirmedRegs(n int) []*models.Registration {
	out := make([]*models.Registration, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &models.Registration{
			ID:          i,
			PlayerName:  "Player",
			PartnerName: sp("Partner"),
			Status:      models.RegistrationConfirmed,
		})
	}
	return out
}

func TestValidateFixedPairsInput(t *testing.T) {
	base := StartRunInput{
		Mode:    models.RunModeFixedPairs,
		Format:  models.FormatBracketOnly,
		Scoring: models.ScoringOneSet,
	}

	tests := []struct {
		name      string
		mutate    func(*StartRunInput)
		confirmed []*models.Registration
		wantErr   error
	}{
		{
			name:      "valid bracket only",
			mutate:    func(i *StartRunInput) {},
			confirmed: confirmedRegs(4),
		},
		{
			name:      "invalid scoring",
			mutate:    func(i *StartRunInput) { i.Scoring = "golden_point" },
			confirmed: confirmedRegs(4),
			wantErr:   ErrInvalidScoringMode,
		},
		{
			name:      "invalid format",
			mutate:    func(i *StartRunInput) { i.Format = "swiss" },
			confirmed: confirmedRegs(4),
			wantErr:   ErrInvalidRunFormat,
		},
		{
			name:      "too few confirmed",
			mutate:    func(i *StartRunInput) {},
			confirmed: confirmedRegs(1),
			wantErr:   ErrNotEnoughRegistrations,
		},
		{
			name:   "registration without partner",
			mutate: func(i *StartRunInput) {},
			confirmed: func() []*models.Registration {
				regs := confirmedRegs(4)
				regs[2].PartnerName = nil
				return regs
			}(),
			wantErr: ErrPartnerNameRequired,
		},
		{
			name: "seed count mismatch",
			mutate: func(i *StartRunInput) {
				i.SeedsCount = 2
				i.SeedRegistrationIDs = []int{1}
			},
			confirmed: confirmedRegs(4),
			wantErr:   ErrSeedCountMismatch,
		},
		{
			name: "duplicate seed",
			mutate: func(i *StartRunInput) {
				i.SeedsCount = 2
				i.SeedRegistrationIDs = []int{1, 1}
			},
			confirmed: confirmedRegs(4),
			wantErr:   ErrSeedDuplicated,
		},
		{
			name: "seed not confirmed",
			mutate: func(i *StartRunInput) {
				i.SeedsCount = 1
				i.SeedRegistrationIDs = []int{99}
			},
			confirmed: confirmedRegs(4),
			wantErr:   ErrSeedNotConfirmed,
		},
		{
			name: "group of one rejected",
			mutate: func(i *StartRunInput) {
				i.Format = models.FormatGroupOnly
				i.Groups = [][]int{{1, 2}, {3}}
			},
			confirmed: confirmedRegs(4),
			wantErr:   ErrGroupTooSmall,
		},
		{
			name: "registration in two groups",
			mutate: func(i *StartRunInput) {
				i.Format = models.FormatGroupOnly
				i.Groups = [][]int{{1, 2}, {2, 3}}
			},
			confirmed: confirmedRegs(4),
			wantErr:   ErrValidationFailed,
		},
		{
			name: "qualifiers below two",
			mutate: func(i *StartRunInput) {
				i.Format = models.FormatGroupsAndBracket
				i.Groups = [][]int{{1, 2}, {3, 4}}
				i.QualifiersCount = 1
			},
			confirmed: confirmedRegs(4),
			wantErr:   ErrQualifiersOutOfRange,
		},
		{
			name: "qualifiers above placed pairs",
			mutate: func(i *StartRunInput) {
				i.Format = models.FormatGroupsAndBracket
				i.Groups = [][]int{{1, 2}, {3, 4}}
				i.QualifiersCount = 5
			},
			confirmed: confirmedRegs(4),
			wantErr:   ErrQualifiersOutOfRange,
		},
		{
			name: "valid groups and bracket",
			mutate: func(i *StartRunInput) {
				i.Format = models.FormatGroupsAndBracket
				i.Groups = [][]int{{1, 2}, {3, 4}}
				i.QualifiersCount = 4
			},
			confirmed: confirmedRegs(4),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base
			tt.mutate(&input)
			err := validateFixedPairsInput(input, tt.confirmed)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBaraondaInput(t *testing.T) {
	regsWithSex := func(males, females int) []*models.Registration {
		out := make([]*models.Registration, 0, males+females)
		id := 1
		for i := 0; i < males; i++ {
			out = append(out, &models.Registration{ID: id, PlayerName: "M", Sex: sp("m"), Status: models.RegistrationConfirmed})
			id++
		}
		for i := 0; i < females; i++ {
			out = append(out, &models.Registration{ID: id, PlayerName: "F", Sex: sp("f"), Status: models.RegistrationConfirmed})
			id++
		}
		return out
	}

	base := StartRunInput{
		Mode:           models.RunModeBaraonda,
		Scoring:        models.ScoringOneSet,
		MatchesPerTurn: 2,
		Turns:          8,
	}

	t.Run("valid misto", func(t *testing.T) {
		assert.NoError(t, validateBaraondaInput(base, models.CategoryMisto, regsWithSex(5, 5)))
	})
	t.Run("misto imbalance", func(t *testing.T) {
		assert.ErrorIs(t,
			validateBaraondaInput(base, models.CategoryMisto, regsWithSex(6, 4)),
			ErrMistoGenderImbalance)
	})
	t.Run("missing sex in misto", func(t *testing.T) {
		regs := regsWithSex(2, 1)
		regs = append(regs, &models.Registration{ID: 9, PlayerName: "X", Status: models.RegistrationConfirmed})
		assert.ErrorIs(t, validateBaraondaInput(base, models.CategoryMisto, regs), ErrSexRequired)
	})
	t.Run("too few players", func(t *testing.T) {
		assert.ErrorIs(t,
			validateBaraondaInput(base, models.CategoryMaschile, regsWithSex(3, 0)),
			ErrNotEnoughRegistrations)
	})
	t.Run("zero turns rejected", func(t *testing.T) {
		input := base
		input.Turns = 0
		assert.ErrorIs(t,
			validateBaraondaInput(input, models.CategoryMaschile, regsWithSex(6, 0)),
			ErrValidationFailed)
	})
	t.Run("maschile ignores sex balance", func(t *testing.T) {
		assert.NoError(t, validateBaraondaInput(base, models.CategoryMaschile, regsWithSex(6, 0)))
	})
}
