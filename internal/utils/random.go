package utils

import (
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var grades = []string{"G1", "G2", "G3", "G4", "G5", "G6", "G7"}
var levels = []string{"L1", "L2", "L3", "L4", "L5"}
var functions = []string{"HR", "IT", "FIN", "OPS", "MKT", "QA"}

func GenerateRandomGrade() string {
	return grades[rand.Intn(len(grades))]
}

func GenerateRandomLevel() string {
	return levels[rand.Intn(len(levels))]
}

func GenerateRandomFunction() string {
	return functions[rand.Intn(len(functions))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomEmployee 生成一个带随机组织属性的普通员工
func GenerateRandomEmployee(password string, emailDomainName string, positionIDs []int64, dmtIDs []int64) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleEmployee,
		Grade:        GenerateRandomGrade(),
		Level:        GenerateRandomLevel(),
		Function:     GenerateRandomFunction(),
	}

	if len(positionIDs) > 0 {
		positionID := positionIDs[rand.Intn(len(positionIDs))]
		user.PositionID = &positionID
	}
	if len(dmtIDs) > 0 {
		dmtID := dmtIDs[rand.Intn(len(dmtIDs))]
		user.DMTID = &dmtID
	}

	return user, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

var trainingTopics = []string{
	"信息安全意识", "新员工入职引导", "项目管理基础", "沟通与协作",
	"数据分析入门", "合规与职业道德", "时间管理", "领导力进阶",
}

// GenerateRandomTraining 随机生成一个培训，时间安排分三种情况：
// 未定档（无起止时间）、只定了开始时间、起止时间齐全
func GenerateRandomTraining(trainerID *int64, venueID *int64) *domain.Training {
	training := &domain.Training{
		Topic:     trainingTopics[rand.Intn(len(trainingTopics))] + GenerateRandomID(0, 3),
		TrainerID: trainerID,
		VenueID:   venueID,
	}

	switch rand.Intn(3) {
	case 0:
		// 时间待定
	case 1:
		startAt := time.Now().Add(time.Duration(rand.Intn(30)+1) * 24 * time.Hour)
		training.StartAt = &startAt
	case 2:
		startAt := time.Now().Add(time.Duration(rand.Intn(30)+1) * 24 * time.Hour)
		endAt := startAt.Add(time.Duration(rand.Intn(8)+1) * time.Hour)
		training.StartAt = &startAt
		training.EndAt = &endAt
	}

	return training
}
