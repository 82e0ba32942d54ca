package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/GoArmGo/WardrobeApp/internal/messaging/payloads"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type lookTestEnv struct {
	looks   *mockLookStorage
	pieces  *mockPieceCatalog
	users   *mockUserStorage
	files   *mockFileStorage
	cascade *mockCascadePublisher
	it      *LookInteractor
}

func newLookTestEnv(pieces ...domain.Piece) *lookTestEnv {
	env := &lookTestEnv{
		looks:   newMockLookStorage(),
		pieces:  newMockPieceCatalog(pieces...),
		users:   newMockUserStorage(),
		files:   &mockFileStorage{},
		cascade: &mockCascadePublisher{},
	}
	env.it = NewLookInteractor(env.looks, env.pieces, env.users, env.files, env.cascade, testLogger())
	return env
}

func testPiece(name string) domain.Piece {
	return domain.Piece{ID: uuid.New(), Name: name, Gender: domain.GenderMale}
}

func testImage() *ImageUpload {
	return &ImageUpload{
		Filename:    "look.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("image-bytes"),
	}
}

func TestCreateLookValidation(t *testing.T) {
	shirt := testPiece("white shirt")
	jeans := testPiece("blue jeans")
	author := &domain.User{ID: uuid.New(), Gender: domain.GenderMale}

	tests := []struct {
		name      string
		input     CreateLookInput
		wantField string
		wantMsg   string
	}{
		{
			name:      "без вещей",
			input:     CreateLookInput{Gender: domain.GenderMale, Image: testImage()},
			wantField: "pieces",
			wantMsg:   "Please, select pieces",
		},
		{
			name: "одна вещь",
			input: CreateLookInput{
				PieceIDs: []string{shirt.ID.String()},
				Gender:   domain.GenderMale,
				Image:    testImage(),
			},
			wantField: "pieces",
			wantMsg:   "The look must consist of at least two pieces",
		},
		{
			name: "несуществующая вещь",
			input: CreateLookInput{
				PieceIDs: []string{shirt.ID.String(), uuid.New().String()},
				Gender:   domain.GenderMale,
				Image:    testImage(),
			},
			wantField: "pieces",
			wantMsg:   "Please, select pieces",
		},
		{
			name: "без пола",
			input: CreateLookInput{
				PieceIDs: []string{shirt.ID.String(), jeans.ID.String()},
				Image:    testImage(),
			},
			wantField: "gender",
			wantMsg:   "Please, select gender",
		},
		{
			name: "неизвестный сезон",
			input: CreateLookInput{
				PieceIDs: []string{shirt.ID.String(), jeans.ID.String()},
				Gender:   domain.GenderMale,
				Season:   "Spring",
				Image:    testImage(),
			},
			wantField: "season",
			wantMsg:   "Please, select season",
		},
		{
			name: "без изображения",
			input: CreateLookInput{
				PieceIDs: []string{shirt.ID.String(), jeans.ID.String()},
				Gender:   domain.GenderMale,
			},
			wantField: "img",
			wantMsg:   "Image is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newLookTestEnv(shirt, jeans)

			_, err := env.it.CreateLook(context.Background(), author, tt.input)

			ve, ok := domain.AsValidationError(err)
			if !ok {
				t.Fatalf("ожидалась ошибка валидации, получено: %v", err)
			}
			if got := ve.Fields[tt.wantField]; got != tt.wantMsg {
				t.Errorf("Fields[%q] = %q, want %q", tt.wantField, got, tt.wantMsg)
			}

			// при ошибке валидации не должно быть ни загрузки, ни записи
			if len(env.files.uploads) != 0 {
				t.Error("файл загружен до прохождения валидации")
			}
			if len(env.looks.created) != 0 {
				t.Error("запись создана при ошибке валидации")
			}
		})
	}
}

// Ошибки собираются по всем полям разом, а не по первому сбою
func TestCreateLookValidationCollectsAllFields(t *testing.T) {
	env := newLookTestEnv()
	author := &domain.User{ID: uuid.New()}

	_, err := env.it.CreateLook(context.Background(), author, CreateLookInput{Gender: "Male"})

	ve, ok := domain.AsValidationError(err)
	if !ok {
		t.Fatalf("ожидалась ошибка валидации, получено: %v", err)
	}
	for _, field := range []string{"pieces", "gender", "img"} {
		if _, present := ve.Fields[field]; !present {
			t.Errorf("в ответе нет ошибки поля %q: %v", field, ve.Fields)
		}
	}
}

func TestCreateLookSuccess(t *testing.T) {
	shirt := testPiece("white shirt")
	jeans := testPiece("blue jeans")
	author := &domain.User{ID: uuid.New(), Gender: domain.GenderMale}
	env := newLookTestEnv(shirt, jeans)

	look, err := env.it.CreateLook(context.Background(), author, CreateLookInput{
		PieceIDs: []string{shirt.ID.String(), jeans.ID.String()},
		Gender:   domain.GenderMale,
		Season:   domain.SeasonSummer,
		Image:    testImage(),
	})
	if err != nil {
		t.Fatalf("CreateLook: %v", err)
	}

	if len(env.files.uploads) != 1 {
		t.Fatalf("загрузок файлов: %d, want 1", len(env.files.uploads))
	}
	if look.Img != env.files.uploads[0] {
		t.Errorf("Img = %q, ключ загруженного файла %q", look.Img, env.files.uploads[0])
	}
	if look.AuthorID != author.ID {
		t.Errorf("AuthorID = %s, want %s", look.AuthorID, author.ID)
	}
	if look.Seq == 0 {
		t.Error("после сохранения образ должен получить порядковый номер")
	}
}

func TestCreateLookUploadFailureDoesNotSave(t *testing.T) {
	shirt := testPiece("white shirt")
	jeans := testPiece("blue jeans")
	author := &domain.User{ID: uuid.New(), Gender: domain.GenderMale}
	env := newLookTestEnv(shirt, jeans)
	env.files.uploadErr = errors.New("s3 unavailable")

	_, err := env.it.CreateLook(context.Background(), author, CreateLookInput{
		PieceIDs: []string{shirt.ID.String(), jeans.ID.String()},
		Gender:   domain.GenderMale,
		Image:    testImage(),
	})
	if err == nil {
		t.Fatal("ожидалась ошибка загрузки")
	}
	if len(env.looks.created) != 0 {
		t.Error("запись не должна создаваться без загруженного файла")
	}
}

func TestCreateLookStorageFailureCleansUpFile(t *testing.T) {
	shirt := testPiece("white shirt")
	jeans := testPiece("blue jeans")
	author := &domain.User{ID: uuid.New(), Gender: domain.GenderMale}
	env := newLookTestEnv(shirt, jeans)
	env.looks.createErr = errors.New("db down")

	_, err := env.it.CreateLook(context.Background(), author, CreateLookInput{
		PieceIDs: []string{shirt.ID.String(), jeans.ID.String()},
		Gender:   domain.GenderMale,
		Image:    testImage(),
	})
	if err == nil {
		t.Fatal("ожидалась ошибка сохранения")
	}
	if len(env.files.deletes) != 1 {
		t.Fatalf("осиротевший файл должен быть удален, удалений: %d", len(env.files.deletes))
	}
}

func TestDeleteLookPermissions(t *testing.T) {
	author := &domain.User{ID: uuid.New()}
	stranger := &domain.User{ID: uuid.New()}
	admin := &domain.User{ID: uuid.New(), Roles: pq.StringArray{domain.RoleAdmin}}

	newEnvWithLook := func() (*lookTestEnv, domain.Look) {
		env := newLookTestEnv()
		look := domain.Look{ID: uuid.New(), AuthorID: author.ID, Img: "look.jpg"}
		env.looks.add(look)
		return env, look
	}

	t.Run("чужой пользователь получает отказ", func(t *testing.T) {
		env, look := newEnvWithLook()
		err := env.it.DeleteLook(context.Background(), stranger, look.ID)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
		if len(env.looks.deleted) != 0 {
			t.Error("образ не должен удаляться без прав")
		}
	})

	t.Run("автор удаляет свой образ", func(t *testing.T) {
		env, look := newEnvWithLook()
		if err := env.it.DeleteLook(context.Background(), author, look.ID); err != nil {
			t.Fatalf("DeleteLook: %v", err)
		}
		if len(env.cascade.published) != 1 {
			t.Fatalf("задач каскада опубликовано: %d, want 1", len(env.cascade.published))
		}
		got := env.cascade.published[0]
		if got.Kind != payloads.CascadeLookDeleted || got.ID != look.ID.String() {
			t.Errorf("опубликована задача %+v", got)
		}
	})

	t.Run("администратор удаляет любой образ", func(t *testing.T) {
		env, look := newEnvWithLook()
		if err := env.it.DeleteLook(context.Background(), admin, look.ID); err != nil {
			t.Fatalf("DeleteLook: %v", err)
		}
		if len(env.looks.deleted) != 1 {
			t.Error("образ должен быть удален администратором")
		}
	})

	t.Run("несуществующий образ", func(t *testing.T) {
		env, _ := newEnvWithLook()
		err := env.it.DeleteLook(context.Background(), author, uuid.New())
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestFindLooksForEnrichment(t *testing.T) {
	shirt := testPiece("white shirt")
	jeans := testPiece("blue jeans")
	jacket := testPiece("black jacket")

	user := &domain.User{
		ID:       uuid.New(),
		Name:     "walter",
		Gender:   domain.GenderMale,
		Wardrobe: pq.StringArray{shirt.ID.String(), jeans.ID.String()},
	}
	other := &domain.User{ID: uuid.New(), Name: "jesse", Gender: domain.GenderMale}

	env := newLookTestEnv(shirt, jeans, jacket)
	env.users.users[user.ID] = user
	env.users.users[other.ID] = other

	ownLook := domain.Look{
		ID: uuid.New(), Seq: 1, Gender: domain.GenderMale,
		Pieces:   pq.StringArray{shirt.ID.String(), jeans.ID.String()},
		AuthorID: user.ID,
	}
	otherLook := domain.Look{
		ID: uuid.New(), Seq: 2, Gender: domain.GenderMale,
		Pieces:   pq.StringArray{jeans.ID.String(), jacket.ID.String()},
		AuthorID: other.ID,
	}
	env.looks.candidates = []domain.Look{otherLook, ownLook}

	page, err := env.it.FindLooksFor(context.Background(), user, domain.LookQuery{Limit: 10})
	if err != nil {
		t.Fatalf("FindLooksFor: %v", err)
	}

	if page.TotalResults != 2 {
		t.Fatalf("TotalResults = %d, want 2", page.TotalResults)
	}
	if len(page.Looks) != 2 {
		t.Fatalf("размер страницы = %d, want 2", len(page.Looks))
	}

	// первым идет полностью собираемый из гардероба образ
	first, second := page.Looks[0], page.Looks[1]
	if first.ID != ownLook.ID {
		t.Fatalf("первый образ %s, want %s", first.ID, ownLook.ID)
	}
	if first.Variance != 0 || second.Variance != 1 {
		t.Errorf("variance: %d и %d, want 0 и 1", first.Variance, second.Variance)
	}
	if !first.CanDelete {
		t.Error("автор должен иметь право удалить свой образ")
	}
	if second.CanDelete {
		t.Error("чужой образ нельзя удалять без прав администратора")
	}
	if first.Author.Name != "walter" || second.Author.Name != "jesse" {
		t.Errorf("авторы: %q и %q", first.Author.Name, second.Author.Name)
	}

	for _, p := range first.Pieces {
		if !p.InWardrobe {
			t.Errorf("вещь %s собранного образа должна быть в гардеробе", p.ID)
		}
	}
	var jacketSeen bool
	for _, p := range second.Pieces {
		if p.ID == jacket.ID {
			jacketSeen = true
			if p.InWardrobe {
				t.Error("куртки нет в гардеробе, флаг inWardrobe должен быть false")
			}
		}
	}
	if !jacketSeen {
		t.Error("вещи образа должны попасть в обогащенную выдачу")
	}
}

func TestFindLooksForTotalCountsBeyondPage(t *testing.T) {
	shirt := testPiece("white shirt")
	user := &domain.User{
		ID: uuid.New(), Gender: domain.GenderMale,
		Wardrobe: pq.StringArray{shirt.ID.String()},
	}
	author := &domain.User{ID: uuid.New(), Name: "author"}

	env := newLookTestEnv(shirt)
	env.users.users[user.ID] = user
	env.users.users[author.ID] = author

	for seq := int64(1); seq <= 5; seq++ {
		env.looks.candidates = append(env.looks.candidates, domain.Look{
			ID: uuid.New(), Seq: seq, Gender: domain.GenderMale,
			Pieces:   pq.StringArray{shirt.ID.String()},
			AuthorID: author.ID,
		})
	}

	page, err := env.it.FindLooksFor(context.Background(), user, domain.LookQuery{Limit: 2, Skip: 2})
	if err != nil {
		t.Fatalf("FindLooksFor: %v", err)
	}
	if page.TotalResults != 5 {
		t.Errorf("TotalResults = %d, want 5", page.TotalResults)
	}
	if len(page.Looks) != 2 {
		t.Errorf("размер страницы = %d, want 2", len(page.Looks))
	}
}

func TestProcessCascadeTask(t *testing.T) {
	t.Run("look_deleted вычищает ссылки", func(t *testing.T) {
		env := newLookTestEnv()
		lookID := uuid.New()

		err := env.it.ProcessCascadeTask(context.Background(), payloads.CascadePayload{
			Kind: payloads.CascadeLookDeleted,
			ID:   lookID.String(),
		})
		if err != nil {
			t.Fatalf("ProcessCascadeTask: %v", err)
		}
		if len(env.users.scrubbed) != 1 || env.users.scrubbed[0] != lookID {
			t.Errorf("scrubbed = %v, want [%s]", env.users.scrubbed, lookID)
		}
	})

	t.Run("piece_deleted удаляет зависимые образы и порождает задачи", func(t *testing.T) {
		env := newLookTestEnv()
		pieceID := uuid.New()

		lookA := domain.Look{ID: uuid.New(), Img: "a.jpg"}
		lookB := domain.Look{ID: uuid.New(), Img: "b.jpg"}
		env.looks.add(lookA)
		env.looks.add(lookB)
		env.looks.byPiece = []domain.Look{lookA, lookB}

		err := env.it.ProcessCascadeTask(context.Background(), payloads.CascadePayload{
			Kind: payloads.CascadePieceDeleted,
			ID:   pieceID.String(),
		})
		if err != nil {
			t.Fatalf("ProcessCascadeTask: %v", err)
		}

		if len(env.looks.deleted) != 2 {
			t.Errorf("удалено образов: %d, want 2", len(env.looks.deleted))
		}
		if len(env.cascade.published) != 2 {
			t.Fatalf("вложенных задач: %d, want 2", len(env.cascade.published))
		}
		for _, p := range env.cascade.published {
			if p.Kind != payloads.CascadeLookDeleted {
				t.Errorf("вложенная задача типа %q, want %q", p.Kind, payloads.CascadeLookDeleted)
			}
		}
	})

	t.Run("повторная доставка piece_deleted безопасна", func(t *testing.T) {
		env := newLookTestEnv()
		// образ числится зависимым, но уже удален предыдущей попыткой
		gone := domain.Look{ID: uuid.New()}
		env.looks.byPiece = []domain.Look{gone}

		err := env.it.ProcessCascadeTask(context.Background(), payloads.CascadePayload{
			Kind: payloads.CascadePieceDeleted,
			ID:   uuid.New().String(),
		})
		if err != nil {
			t.Fatalf("повторная доставка должна обрабатываться без ошибки: %v", err)
		}
	})

	t.Run("неизвестный тип задачи не считается ошибкой", func(t *testing.T) {
		env := newLookTestEnv()
		err := env.it.ProcessCascadeTask(context.Background(), payloads.CascadePayload{
			Kind: "mystery",
			ID:   uuid.New().String(),
		})
		if err != nil {
			t.Fatalf("неизвестная задача: %v", err)
		}
	})
}
