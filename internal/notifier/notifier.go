package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
)

// QueueName 是通知邮件使用的队列，由 cmd/mail 消费
const QueueName = "email_queue"

// TBD 用在培训信息缺失时的占位文案
const TBD = "待定"

// Channel 是 Notifier 依赖的消息队列发布能力，*amqp.Channel 满足这个接口
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Notifier struct {
	cfg     *config.Config
	channel Channel
}

func NewNotifier(cfg *config.Config, channel Channel) *Notifier {
	return &Notifier{
		cfg:     cfg,
		channel: channel,
	}
}

// NotifyAll 在分配事务提交之后给每个接收人投递一封通知邮件。
// 通知是尽力而为的旁路：单个接收人的失败只记录日志，
// 不会中断其余接收人的投递，更不会影响已提交的分配数据。
func (n *Notifier) NotifyAll(committed *domain.CommittedAssignment) {
	date, timeOfDay := FormatSchedule(committed.Training.StartAt, committed.Training.EndAt)

	topic := committed.Training.Topic
	if topic == "" {
		topic = TBD
	}
	venue := TBD
	if committed.Training.VenueName != nil {
		venue = *committed.Training.VenueName
	}
	trainer := TBD
	if committed.Training.TrainerName != nil {
		trainer = *committed.Training.TrainerName
	}

	for _, recipient := range committed.Recipients {
		mailMessage := domain.MailMessage{
			Type: "training_assigned",
			To:   recipient.Email,
			Data: domain.TrainingAssignedMailData{
				FullName: recipient.FullName,
				Topic:    topic,
				Venue:    venue,
				Date:     date,
				Time:     timeOfDay,
				Trainer:  trainer,
			},
		}

		body, err := json.Marshal(mailMessage)
		if err != nil {
			slog.Error("通知邮件序列化失败", "to", recipient.Email, "error", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(n.cfg.RabbitMQ.PublishTimeout)*time.Second)
		err = n.channel.PublishWithContext(
			ctx,
			"",
			QueueName,
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		)
		cancel()
		if err != nil {
			slog.Error("通知邮件入队失败", "to", recipient.Email, "error", err)
			continue
		}
	}
}

// FormatSchedule 把培训的起止时间转换成邮件里的日期和时间文案。
// 两个时间都缺失时显示待定；只有开始时间时显示单个值；
// 都存在时日期和时间各自显示成起止区间。
func FormatSchedule(startAt, endAt *time.Time) (string, string) {
	if startAt == nil {
		return TBD, TBD
	}

	if endAt == nil {
		return startAt.Format("2006-01-02"), startAt.Format("15:04")
	}

	date := startAt.Format("2006-01-02") + " - " + endAt.Format("2006-01-02")
	timeOfDay := startAt.Format("15:04") + " - " + endAt.Format("15:04")
	return date, timeOfDay
}
