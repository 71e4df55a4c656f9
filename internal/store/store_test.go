package store

import (
	"context"
	"testing"

	"github.com/quizdeck/quizdeck/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, "") // in-memory
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func i64Ptr(n int64) *int64   { return &n }

func seedCategory(t *testing.T, s *Store, name string) *model.Category {
	t.Helper()
	c := &model.Category{
		Name:         name,
		NameAr:       name + " ar",
		Difficulty:   model.DifficultyMedium,
		TimerSeconds: model.DefaultTimerSeconds,
	}
	if err := s.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return c
}

func seedQuestion(t *testing.T, s *Store, categoryID, packID *int64, difficulty string) *model.Question {
	t.Helper()
	q := &model.Question{
		CategoryID:      categoryID,
		ChallengePackID: packID,
		QuestionText:    "What is the capital of France?",
		QuestionTextAr:  "ما هي عاصمة فرنسا؟",
		OptionA:         "Paris", OptionAAr: "باريس",
		OptionB: "Lyon", OptionBAr: "ليون",
		OptionC: "Nice", OptionCAr: "نيس",
		OptionD: "Lille", OptionDAr: "ليل",
		CorrectAnswer: "a",
		Difficulty:    difficulty,
		TimerSeconds:  intPtr(30),
	}
	if err := s.CreateQuestion(context.Background(), q); err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	return q
}

func TestAdminCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	has, err := s.HasAnyAdmin(ctx)
	if err != nil {
		t.Fatalf("HasAnyAdmin: %v", err)
	}
	if has {
		t.Error("expected no admins initially")
	}

	admin := &model.Admin{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$fakehash",
		FullName:     "Alice Admin",
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := s.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if admin.ID == 0 {
		t.Fatal("expected non-zero ID after create")
	}

	// Username uniqueness.
	dup := &model.Admin{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := s.CreateAdmin(ctx, dup); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	got, err := s.GetActiveAdminByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetActiveAdminByUsername: %v", err)
	}
	if got.ID != admin.ID {
		t.Errorf("got ID %d, want %d", got.ID, admin.ID)
	}
	if got.Role != model.RoleSuperAdmin {
		t.Errorf("got role %q, want %q", got.Role, model.RoleSuperAdmin)
	}

	// Inactive accounts look missing to login.
	inactive := &model.Admin{
		Username:     "bob",
		Email:        "bob@example.com",
		PasswordHash: "x",
		Role:         model.RoleModerator,
		IsActive:     false,
	}
	if err := s.CreateAdmin(ctx, inactive); err != nil {
		t.Fatalf("CreateAdmin inactive: %v", err)
	}
	if _, err := s.GetActiveAdminByUsername(ctx, "bob"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for inactive admin, got %v", err)
	}
	// But GetAdmin returns any state for token re-checks.
	got2, err := s.GetAdmin(ctx, inactive.ID)
	if err != nil {
		t.Fatalf("GetAdmin: %v", err)
	}
	if got2.IsActive {
		t.Error("expected inactive admin")
	}

	if err := s.TouchAdminLogin(ctx, admin.ID); err != nil {
		t.Fatalf("TouchAdminLogin: %v", err)
	}
	got3, _ := s.GetAdmin(ctx, admin.ID)
	if got3.LastLoginAt == nil {
		t.Error("expected last_login_at to be set")
	}

	if err := s.UpdateAdminProfile(ctx, admin.ID, AdminProfilePatch{
		Email:    strPtr("alice2@example.com"),
		FullName: strPtr("Alice A."),
	}); err != nil {
		t.Fatalf("UpdateAdminProfile: %v", err)
	}
	got4, _ := s.GetAdmin(ctx, admin.ID)
	if got4.Email != "alice2@example.com" {
		t.Errorf("got email %q, want %q", got4.Email, "alice2@example.com")
	}

	admins, err := s.ListAdmins(ctx)
	if err != nil {
		t.Fatalf("ListAdmins: %v", err)
	}
	if len(admins) != 2 {
		t.Errorf("got %d admins, want 2", len(admins))
	}
}

func TestCategoryCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := seedCategory(t, s, "Science")
	if c.ID == 0 {
		t.Fatal("expected non-zero ID")
	}

	got, err := s.GetCategory(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if got.Name != "Science" {
		t.Errorf("got name %q, want %q", got.Name, "Science")
	}
	if got.QuestionCount != 0 {
		t.Errorf("got question count %d, want 0", got.QuestionCount)
	}

	seedQuestion(t, s, &c.ID, nil, model.DifficultyEasy)
	got, _ = s.GetCategory(ctx, c.ID)
	if got.QuestionCount != 1 {
		t.Errorf("got question count %d, want 1", got.QuestionCount)
	}

	seedCategory(t, s, "History")
	seedCategory(t, s, "Geography")

	list, total, err := s.ListCategories(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if total != 3 {
		t.Errorf("got total %d, want 3", total)
	}
	if len(list) != 2 {
		t.Errorf("got %d categories, want 2", len(list))
	}

	if err := s.UpdateCategory(ctx, c.ID, model.CategoryPatch{
		Name:       strPtr("Natural Science"),
		Difficulty: strPtr(model.DifficultyHard),
	}); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	got, _ = s.GetCategory(ctx, c.ID)
	if got.Name != "Natural Science" {
		t.Errorf("got name %q, want %q", got.Name, "Natural Science")
	}
	if got.Difficulty != model.DifficultyHard {
		t.Errorf("got difficulty %q, want %q", got.Difficulty, model.DifficultyHard)
	}

	if err := s.SoftDeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("SoftDeleteCategory: %v", err)
	}
	if _, err := s.GetCategory(ctx, c.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	// A second delete and updates of deleted rows miss.
	if err := s.SoftDeleteCategory(ctx, c.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := s.UpdateCategory(ctx, c.ID, model.CategoryPatch{Name: strPtr("x")}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound updating deleted row, got %v", err)
	}
}

func TestPackDownload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &model.ChallengePack{
		Name:         "Movie Night",
		NameAr:       "ليلة أفلام",
		Theme:        "movies",
		Difficulty:   model.DifficultyEasy,
		TimerSeconds: 20,
	}
	if err := s.CreatePack(ctx, p); err != nil {
		t.Fatalf("CreatePack: %v", err)
	}

	seedQuestion(t, s, nil, &p.ID, model.DifficultyEasy)
	seedQuestion(t, s, nil, &p.ID, model.DifficultyMedium)
	deleted := seedQuestion(t, s, nil, &p.ID, model.DifficultyHard)
	if err := s.SoftDeleteQuestion(ctx, deleted.ID); err != nil {
		t.Fatalf("SoftDeleteQuestion: %v", err)
	}

	dl, err := s.DownloadPack(ctx, p.ID)
	if err != nil {
		t.Fatalf("DownloadPack: %v", err)
	}
	if dl.PackInfo.DownloadCount != 1 {
		t.Errorf("got download count %d, want 1", dl.PackInfo.DownloadCount)
	}
	if dl.TotalQuestions != 2 {
		t.Errorf("got %d questions, want 2 (deleted question excluded)", dl.TotalQuestions)
	}

	dl2, _ := s.DownloadPack(ctx, p.ID)
	if dl2.PackInfo.DownloadCount != 2 {
		t.Errorf("got download count %d, want 2", dl2.PackInfo.DownloadCount)
	}

	if _, err := s.DownloadPack(ctx, 9999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Theme filter on listing.
	other := &model.ChallengePack{Name: "Sports", NameAr: "رياضة", Theme: "sports", Difficulty: model.DifficultyMedium, TimerSeconds: 30}
	if err := s.CreatePack(ctx, other); err != nil {
		t.Fatalf("CreatePack: %v", err)
	}
	list, total, err := s.ListPacks(ctx, 1, 10, "movies")
	if err != nil {
		t.Fatalf("ListPacks: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("got total %d len %d, want 1/1", total, len(list))
	}
	if list[0].ID != p.ID {
		t.Errorf("got pack %d, want %d", list[0].ID, p.ID)
	}
}

func TestQuestionFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Science")
	other := seedCategory(t, s, "History")

	seedQuestion(t, s, &cat.ID, nil, model.DifficultyEasy)
	seedQuestion(t, s, &cat.ID, nil, model.DifficultyHard)
	seedQuestion(t, s, &other.ID, nil, model.DifficultyEasy)

	list, total, err := s.ListQuestions(ctx, model.QuestionFilter{CategoryID: &cat.ID}, 1, 10)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("got total %d len %d, want 2/2", total, len(list))
	}
	if list[0].CategoryName == nil || *list[0].CategoryName != "Science" {
		t.Errorf("expected joined category name Science, got %v", list[0].CategoryName)
	}

	list, total, err = s.ListQuestions(ctx, model.QuestionFilter{CategoryID: &cat.ID, Difficulty: model.DifficultyHard}, 1, 10)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if total != 1 {
		t.Errorf("got total %d, want 1", total)
	}

	random, err := s.RandomQuestions(ctx, model.QuestionFilter{CategoryID: &cat.ID}, 1)
	if err != nil {
		t.Fatalf("RandomQuestions: %v", err)
	}
	if len(random) != 1 {
		t.Errorf("got %d random questions, want 1", len(random))
	}

	q := list[0]
	if err := s.UpdateQuestion(ctx, q.ID, model.QuestionPatch{
		CorrectAnswer: strPtr("b"),
		Difficulty:    strPtr(model.DifficultyMedium),
	}); err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	got, err := s.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if got.CorrectAnswer != "b" {
		t.Errorf("got correct answer %q, want %q", got.CorrectAnswer, "b")
	}
}

func TestSaveGameResults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Science")
	q1 := seedQuestion(t, s, &cat.ID, nil, model.DifficultyEasy)
	q2 := seedQuestion(t, s, &cat.ID, nil, model.DifficultyMedium)

	game := &model.Game{
		GameName:          "Friday Quiz",
		TotalTeams:        2,
		TotalRounds:       1,
		QuestionsPerRound: 2,
		GameMode:          model.GameModeCategory,
		SourceID:          cat.ID,
	}
	if err := s.CreateGame(ctx, game); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	// Incomplete games are hidden from the list.
	_, total, err := s.ListGames(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if total != 0 {
		t.Errorf("got %d completed games, want 0", total)
	}

	results := model.GameResults{
		GameID: game.ID,
		Teams: []model.TeamResult{
			{Name: "Red", Score: 30},
			{Name: "Blue", Score: 50},
		},
		Questions: [][]int64{{q1.ID, q2.ID}},
		Results: []model.AnswerResult{
			{TeamIndex: 0, QuestionID: q1.ID, Round: 1, SelectedAnswer: "a", IsCorrect: true, PointsEarned: 10, TimeTaken: intPtr(12)},
			{TeamIndex: 1, QuestionID: q1.ID, Round: 1, SelectedAnswer: "b", IsCorrect: false, PointsEarned: 0},
			{TeamIndex: 1, QuestionID: q2.ID, Round: 1, SelectedAnswer: "a", IsCorrect: true, PointsEarned: 20, TimeTaken: intPtr(8)},
		},
	}
	if err := s.SaveGameResults(ctx, results); err != nil {
		t.Fatalf("SaveGameResults: %v", err)
	}

	detail, err := s.GetGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if detail.Game.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
	if len(detail.Teams) != 2 {
		t.Fatalf("got %d teams, want 2", len(detail.Teams))
	}
	// Teams come back best score first.
	if detail.Teams[0].TeamName != "Blue" || detail.Teams[0].TotalScore != 50 {
		t.Errorf("got leader %q/%d, want Blue/50", detail.Teams[0].TeamName, detail.Teams[0].TotalScore)
	}

	// Saving twice is rejected.
	if err := s.SaveGameResults(ctx, results); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on double save, got %v", err)
	}
	// As is saving an unknown game.
	results.GameID = 9999
	if err := s.SaveGameResults(ctx, results); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown game, got %v", err)
	}

	list, total, err := s.ListGames(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("got total %d len %d, want 1/1", total, len(list))
	}
	if list[0].TeamsCount != 2 {
		t.Errorf("got teams_count %d, want 2", list[0].TeamsCount)
	}
	if list[0].SourceName == nil || *list[0].SourceName != "Science" {
		t.Errorf("expected joined source name Science, got %v", list[0].SourceName)
	}
}

func TestAuditLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	admin := &model.Admin{
		Username: "alice", Email: "alice@example.com",
		PasswordHash: "x", Role: model.RoleAdmin, IsActive: true,
	}
	if err := s.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	entries := []*model.AuditEntry{
		{AdminID: &admin.ID, Action: model.AuditCreate, TargetType: "category", TargetID: i64Ptr(1), IPAddress: "10.0.0.1"},
		{AdminID: &admin.ID, Action: model.AuditDelete, TargetType: "question", TargetID: i64Ptr(2), IPAddress: "10.0.0.1"},
		{Action: model.AuditFailedLogin, TargetType: "admin", NewData: strPtr(`{"username":"mallory"}`), IPAddress: "10.0.0.9"},
	}
	for _, e := range entries {
		if err := s.InsertAuditEntry(ctx, e); err != nil {
			t.Fatalf("InsertAuditEntry: %v", err)
		}
	}

	list, total, err := s.ListAuditEntries(ctx, model.AuditFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("ListAuditEntries: %v", err)
	}
	if total != 3 || len(list) != 3 {
		t.Fatalf("got total %d len %d, want 3/3", total, len(list))
	}

	list, total, err = s.ListAuditEntries(ctx, model.AuditFilter{Action: model.AuditFailedLogin}, 1, 10)
	if err != nil {
		t.Fatalf("ListAuditEntries filtered: %v", err)
	}
	if total != 1 {
		t.Fatalf("got total %d, want 1", total)
	}
	if list[0].AdminID != nil {
		t.Error("failed login entry should have no actor")
	}

	list, _, err = s.ListAuditEntries(ctx, model.AuditFilter{AdminID: &admin.ID}, 1, 10)
	if err != nil {
		t.Fatalf("ListAuditEntries by admin: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d entries, want 2", len(list))
	}
	if list[0].AdminUsername == nil || *list[0].AdminUsername != "alice" {
		t.Errorf("expected joined username alice, got %v", list[0].AdminUsername)
	}
}

func TestStatistics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Science")
	seedQuestion(t, s, &cat.ID, nil, model.DifficultyEasy)
	seedQuestion(t, s, &cat.ID, nil, model.DifficultyHard)

	p := &model.ChallengePack{Name: "Movies", NameAr: "أفلام", Theme: "movies", Difficulty: model.DifficultyEasy, TimerSeconds: 30}
	if err := s.CreatePack(ctx, p); err != nil {
		t.Fatalf("CreatePack: %v", err)
	}
	seedQuestion(t, s, nil, &p.ID, model.DifficultyMedium)
	if _, err := s.DownloadPack(ctx, p.ID); err != nil {
		t.Fatalf("DownloadPack: %v", err)
	}

	dash, err := s.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if dash.Counts.TotalCategories != 1 || dash.Counts.TotalPacks != 1 {
		t.Errorf("got counts %+v, want 1 category and 1 pack", dash.Counts)
	}
	if dash.Counts.TotalQuestions != 3 {
		t.Errorf("got %d questions, want 3", dash.Counts.TotalQuestions)
	}
	if dash.Counts.TotalDownloads == nil || *dash.Counts.TotalDownloads != 1 {
		t.Errorf("got downloads %v, want 1", dash.Counts.TotalDownloads)
	}
	if len(dash.PopularCategories) != 1 {
		t.Errorf("got %d popular categories, want 1", len(dash.PopularCategories))
	}

	catStats, err := s.CategoryStats(ctx)
	if err != nil {
		t.Fatalf("CategoryStats: %v", err)
	}
	if len(catStats) != 1 {
		t.Fatalf("got %d category stats, want 1", len(catStats))
	}
	if catStats[0].EasyQuestions != 1 || catStats[0].HardQuestions != 1 {
		t.Errorf("got easy=%d hard=%d, want 1/1", catStats[0].EasyQuestions, catStats[0].HardQuestions)
	}

	packStats, err := s.PackStats(ctx)
	if err != nil {
		t.Fatalf("PackStats: %v", err)
	}
	if len(packStats) != 1 || packStats[0].MediumQuestions != 1 {
		t.Errorf("got pack stats %+v, want one pack with one medium question", packStats)
	}

	qStats, err := s.QuestionStats(ctx)
	if err != nil {
		t.Fatalf("QuestionStats: %v", err)
	}
	if qStats.BySource.CategoryQuestions != 2 || qStats.BySource.PackQuestions != 1 {
		t.Errorf("got source split %+v, want 2 category / 1 pack", qStats.BySource)
	}

	general, err := s.GeneralStats(ctx)
	if err != nil {
		t.Fatalf("GeneralStats: %v", err)
	}
	if general.Questions != 3 {
		t.Errorf("got %d questions, want 3", general.Questions)
	}

	if _, err := s.GameStats(ctx); err != nil {
		t.Fatalf("GameStats: %v", err)
	}
}
