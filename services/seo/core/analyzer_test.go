package core

import (
	"context"
	"errors"
	"testing"

	"github.com/aureonone/seo-audit/pkg/mocks"
	"github.com/aureonone/seo-audit/pkg/models"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_Audit(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		setupMocks    func(*mocks.MockPageFetcher, *mocks.MockMetricsCollector)
		expectedGrade models.Grade
		expectedScore int
		expectedError bool
		errorContains string
	}{
		{
			name: "well optimized page",
			url:  "https://acme.test/widgets",
			setupMocks: func(fetcher *mocks.MockPageFetcher, metrics *mocks.MockMetricsCollector) {
				fetcher.EXPECT().
					FetchAndParsePage(gomock.Any(), "https://acme.test/widgets").
					Return(wellOptimizedPage(), nil)

				metrics.EXPECT().RecordAudit(true, gomock.Any())
				metrics.EXPECT().RecordScore("A", 100)
			},
			expectedGrade: models.GradeA,
			expectedScore: 100,
		},
		{
			name: "page missing title and description",
			url:  "https://acme.test/widgets",
			setupMocks: func(fetcher *mocks.MockPageFetcher, metrics *mocks.MockMetricsCollector) {
				fetcher.EXPECT().
					FetchAndParsePage(gomock.Any(), gomock.Any()).
					Return(pageWith(func(p *models.PageContent) {
						p.Title = ""
						p.MetaDescription = ""
					}), nil)

				metrics.EXPECT().RecordAudit(true, gomock.Any())
				metrics.EXPECT().RecordScore("C", 74)
			},
			expectedGrade: models.GradeC,
			expectedScore: 74,
		},
		{
			name: "upstream error status",
			url:  "https://acme.test/missing",
			setupMocks: func(fetcher *mocks.MockPageFetcher, metrics *mocks.MockMetricsCollector) {
				fetcher.EXPECT().
					FetchAndParsePage(gomock.Any(), "https://acme.test/missing").
					Return(nil, &FetchError{URL: "https://acme.test/missing", StatusCode: 404, Status: "Not Found"})

				metrics.EXPECT().RecordAudit(false, gomock.Any())
			},
			expectedError: true,
			errorContains: "404 Not Found",
		},
		{
			name: "connection failure",
			url:  "https://acme.test/",
			setupMocks: func(fetcher *mocks.MockPageFetcher, metrics *mocks.MockMetricsCollector) {
				fetcher.EXPECT().
					FetchAndParsePage(gomock.Any(), gomock.Any()).
					Return(nil, &FetchError{URL: "https://acme.test/", Err: errors.New("connection refused")})

				metrics.EXPECT().RecordAudit(false, gomock.Any())
			},
			expectedError: true,
			errorContains: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockFetcher := mocks.NewMockPageFetcher(ctrl)
			mockMetrics := mocks.NewMockMetricsCollector(ctrl)
			mockLogger := mocks.NewMockLogger(ctrl)

			mockLogger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
			mockLogger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()

			tt.setupMocks(mockFetcher, mockMetrics)

			analyzer := NewAnalyzer(mockFetcher, mockLogger, mockMetrics)
			result, err := analyzer.Audit(context.Background(), tt.url)

			if tt.expectedError {
				require.Error(t, err)
				assert.Nil(t, result)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.True(t, IsFetchError(err))
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.url, result.URL)
			assert.Equal(t, 200, result.StatusCode)
			assert.Equal(t, int64(400), result.LoadTimeMs)
			assert.Equal(t, tt.expectedGrade, result.Score.Grade)
			assert.Equal(t, tt.expectedScore, result.Score.Overall)
			assert.Equal(t, tt.url, result.Analysis.URL)
			assert.False(t, result.AnalyzedAt.IsZero())
		})
	}
}

func TestAnalyzer_PassesContextThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")

	mockFetcher := mocks.NewMockPageFetcher(ctrl)
	mockMetrics := mocks.NewMockMetricsCollector(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	mockFetcher.EXPECT().
		FetchAndParsePage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(got context.Context, _ string) (*models.PageContent, error) {
			assert.Equal(t, "marker", got.Value(ctxKey{}))
			return wellOptimizedPage(), nil
		})
	mockMetrics.EXPECT().RecordAudit(true, gomock.Any())
	mockMetrics.EXPECT().RecordScore(gomock.Any(), gomock.Any())

	_, err := NewAnalyzer(mockFetcher, mockLogger, mockMetrics).Audit(ctx, "https://acme.test/widgets")
	require.NoError(t, err)
}
