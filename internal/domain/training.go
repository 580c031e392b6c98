package domain

import (
	"time"
)

type Trainer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Venue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Training struct {
	ID        int64      `json:"id"`
	Topic     string     `json:"topic"`
	StartAt   *time.Time `json:"startAt"`
	EndAt     *time.Time `json:"endAt"`
	TrainerID *int64     `json:"trainerId"`
	VenueID   *int64     `json:"venueId"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TrainingSnapshot 是创建分配时对培训信息的一次性读取，
// 只用于填充响应和通知邮件，培训本身的增删改由培训管理模块负责。
type TrainingSnapshot struct {
	ID          int64      `json:"id"`
	Topic       string     `json:"topic"`
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`
	TrainerName *string    `json:"trainerName"`
	VenueName   *string    `json:"venueName"`
}
