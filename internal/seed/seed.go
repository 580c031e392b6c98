package seed

import (
	"log/slog"
	"math/rand"

	"github.com/sysu-ecnc-dev/training-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/utils"
)

var demoTrainers = []string{"陈志远", "林嘉怡", "外聘讲师-张文博"}
var demoVenues = []string{"一号楼 301 培训室", "二号楼报告厅", "线上会议室"}

// SeedDemoData 插入一套演示用的讲师、场地、培训和员工目录，
// 方便本地调试分配的扇出逻辑。
func SeedDemoData(r *repository.Repository, cfg *config.Config, employeeCount int) {
	// 插入讲师
	trainerIDs := make([]int64, 0, len(demoTrainers))
	for _, name := range demoTrainers {
		trainer := &domain.Trainer{Name: name}
		if err := r.CreateTrainer(trainer); err != nil {
			slog.Error("插入讲师失败", "error", err)
			return
		}
		trainerIDs = append(trainerIDs, trainer.ID)
	}

	// 插入场地
	venueIDs := make([]int64, 0, len(demoVenues))
	for _, name := range demoVenues {
		venue := &domain.Venue{Name: name}
		if err := r.CreateVenue(venue); err != nil {
			slog.Error("插入场地失败", "error", err)
			return
		}
		venueIDs = append(venueIDs, venue.ID)
	}

	// 岗位和部门在用户目录中只是外部引用，这里直接用固定的 ID 段
	positionIDs := []int64{1, 2, 3, 4, 5}
	dmtIDs := []int64{10, 20, 30}

	// 插入培训，讲师和场地随机搭配，部分培训不指定场地
	cnt := 0
	for i := 0; i < 10; i++ {
		trainerID := trainerIDs[rand.Intn(len(trainerIDs))]
		training := utils.GenerateRandomTraining(&trainerID, nil)
		if rand.Intn(4) > 0 {
			venueID := venueIDs[rand.Intn(len(venueIDs))]
			training.VenueID = &venueID
		}

		if err := r.CreateTraining(training); err != nil {
			slog.Error("插入培训失败", "error", err)
			continue
		}
		cnt++
	}
	slog.Info("插入培训成功", "count", cnt)

	// 插入员工目录
	cnt = 0
	for i := 0; i < employeeCount; i++ {
		user, err := utils.GenerateRandomEmployee(cfg.Seed.User.Password, cfg.Email.UserDomain, positionIDs, dmtIDs)
		if err != nil {
			slog.Error("无法生成随机员工", "error", err)
			continue
		}

		if err := r.CreateUser(user); err != nil {
			slog.Error("插入员工失败", "error", err)
			continue
		}
		cnt++
	}
	slog.Info("插入员工成功", "count", cnt)
}
