package dataprocessing

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gota/gota/dataframe"

	"ingestcli/internal/config"
	apperrors "ingestcli/internal/errors"
)

// SplitOptions controls TrainTestSplit
type SplitOptions struct {
	TestSize    float64
	RandomState int64
	Shuffle     bool
}

// DefaultSplitOptions returns the 80/20 seeded shuffle split
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{
		TestSize:    0.2,
		RandomState: config.DefaultRandomState,
		Shuffle:     true,
	}
}

// SplitIndices partitions row indexes 0..n-1. The test partition holds
// ceil(TestSize*n) rows; both partitions must be non-empty.
func SplitIndices(n int, opts SplitOptions) (train, test []int, err error) {
	const op = "split"

	if opts.TestSize <= 0 || opts.TestSize >= 1 {
		return nil, nil, apperrors.NewValidationError(op,
			fmt.Sprintf("test_size=%v must be between 0 and 1 exclusive", opts.TestSize), nil)
	}

	nTest := int(math.Ceil(opts.TestSize * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain <= 0 {
		return nil, nil, apperrors.NewValidationError(op,
			fmt.Sprintf("with n_samples=%d and test_size=%v one partition would be empty", n, opts.TestSize), nil)
	}

	if !opts.Shuffle {
		return sequence(0, nTrain), sequence(nTrain, n), nil
	}

	perm := rand.New(rand.NewSource(opts.RandomState)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// TrainTestSplit splits df into train and test partitions.
func TrainTestSplit(df dataframe.DataFrame, opts SplitOptions) (train, test dataframe.DataFrame, err error) {
	trainIdx, testIdx, err := SplitIndices(df.Nrow(), opts)
	if err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, err
	}

	train = df.Subset(trainIdx)
	test = df.Subset(testIdx)
	for _, part := range []dataframe.DataFrame{train, test} {
		if part.Err != nil {
			return dataframe.DataFrame{}, dataframe.DataFrame{},
				apperrors.NewAppError(apperrors.ErrTypeUnexpected, "split", "failed to subset rows", part.Err)
		}
	}
	return train, test, nil
}

func sequence(from, to int) []int {
	s := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		s = append(s, i)
	}
	return s
}
