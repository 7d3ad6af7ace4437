package server

import (
	"strconv"
	"time"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/pkg/lox"
	"gift_parser/pkg/rest"
)

const defaultBatchDelay = time.Second

func newRESTGift(gift entity.Gift) rest.Gift {
	g := rest.Gift{
		ID:             gift.ID,
		Name:           gift.Name.String(),
		Model:          gift.Model,
		Backdrop:       gift.Backdrop,
		Symbol:         gift.Symbol,
		RarityScore:    gift.RarityScore,
		EstimatedPrice: gift.EstimatedPrice,
		Link:           value.NFTLink(gift.Name, gift.ID),
	}

	if gift.SalePrice != "" {
		g.SalePrice = &gift.SalePrice
	}

	if !gift.DateAdded.IsZero() {
		g.DateAdded = &gift.DateAdded
	}

	return g
}

func newRESTGifts(gifts []entity.Gift) []rest.Gift {
	return lox.Map(gifts, newRESTGift)
}

func newRESTTask(job entity.Job) rest.Task {
	return rest.Task{
		TaskID:      job.ID,
		Current:     job.Current,
		Total:       job.Total,
		Success:     job.Success,
		Failed:      job.Failed,
		Status:      job.Status.String(),
		Progress:    job.Progress,
		GiftType:    job.GiftType,
		StartID:     job.StartID,
		EndID:       job.EndID,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
}

func newRESTTaskList(jobs []entity.Job) rest.TaskList {
	list := rest.TaskList{
		ActiveTasks:    []rest.Task{},
		CompletedTasks: []rest.Task{},
		TotalTasks:     len(jobs),
	}

	for _, job := range jobs {
		if job.Status.Finished() {
			list.CompletedTasks = append(list.CompletedTasks, newRESTTask(job))
		} else {
			list.ActiveTasks = append(list.ActiveTasks, newRESTTask(job))
		}
	}

	return list
}

func newRESTBatchResponse(job entity.Job) rest.BatchResponse {
	return rest.BatchResponse{
		TaskID:  job.ID,
		Message: "batch parsing started",
		Details: rest.BatchDetails{
			Range: strconv.FormatInt(job.StartID, 10) + "-" + strconv.FormatInt(job.EndID, 10),
			Type:  job.GiftType,
			Delay: job.Delay.Seconds(),
		},
	}
}

func newDomainBatchRequest(request rest.BatchRequest) entity.BatchRequest {
	delay := defaultBatchDelay
	if request.Delay != nil {
		delay = time.Duration(*request.Delay * float64(time.Second))
	}

	return entity.BatchRequest{
		GiftType: request.GiftType,
		StartID:  request.StartID,
		EndID:    request.EndID,
		Delay:    delay,
	}
}

func newDomainPricing(pricing rest.GiftPricing) entity.Pricing {
	return entity.Pricing{
		SalePrice:      pricing.SalePrice,
		RarityScore:    pricing.RarityScore,
		EstimatedPrice: pricing.EstimatedPrice,
	}
}
