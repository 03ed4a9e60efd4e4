package repositories

type Repository struct {
	PostRead PostReadRepository
	Post     PostRepository
	User     UserRepository
}

func New() Repository {
	return Repository{
		PostRead: NewPostReadRepository(),
		Post:     NewPostRepository(),
		User:     NewUserRepository(),
	}
}
