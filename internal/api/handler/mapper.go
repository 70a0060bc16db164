package handler

import (
	"github.com/carvalue/marketplace-api/internal/core/domain"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Admin:     u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toReportResponse(v *domain.ReportView) reportResponse {
	resp := reportResponse{
		ID:       v.ID,
		Price:    v.Price,
		Make:     v.Make,
		Model:    v.Model,
		Year:     v.Year,
		Mileage:  v.Mileage,
		Lat:      v.Location.Lat,
		Lng:      v.Location.Lng,
		Approved: v.Approved,
		User: userRefResponse{
			ID:    v.Owner.ID,
			Email: v.Owner.Email,
			Admin: v.Owner.IsAdmin,
		},
		Reviews:   toReviewResponses(v.Reviews),
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	return resp
}

func toReportResponses(views []domain.ReportView) []reportResponse {
	out := make([]reportResponse, 0, len(views))
	for i := range views {
		out = append(out, toReportResponse(&views[i]))
	}
	return out
}

func toReviewResponse(v *domain.ReviewView) reviewResponse {
	resp := reviewResponse{
		ID:      v.ID,
		Content: v.Content,
		Rating:  v.Rating,
	}
	if v.Author != nil {
		resp.User = &userRefResponse{ID: v.Author.ID, Email: v.Author.Email}
	}
	if v.ReportID != "" {
		resp.Report = &reportRefResponse{ID: v.ReportID}
	}
	if !v.CreatedAt.IsZero() {
		createdAt := v.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

func toReviewResponses(views []domain.ReviewView) []reviewResponse {
	out := make([]reviewResponse, 0, len(views))
	for i := range views {
		out = append(out, toReviewResponse(&views[i]))
	}
	return out
}

func toEstimateCriteria(q estimateQuery) domain.EstimateCriteria {
	return domain.EstimateCriteria{
		Make:    q.Make,
		Model:   q.Model,
		Year:    q.Year,
		Mileage: q.Mileage,
		Lat:     q.Lat,
		Lng:     q.Lng,
	}
}

func (r updateReportRequest) toPatch() domain.ReportPatch {
	return domain.ReportPatch{
		Price:   r.Price,
		Make:    r.Make,
		Model:   r.Model,
		Year:    r.Year,
		Mileage: r.Mileage,
		Lat:     r.Lat,
		Lng:     r.Lng,
	}
}
