package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk, falling
// back to the built-in defaults. Files are created lazily on first Load.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains the built-in prompt templates.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptGenerateExplanation: `创建一个关于 "%s" 的专家级交互式可视化解释。

请用简体中文 (Simplified Chinese) 回答。

**核心逻辑判定**：
如果是**算法名称**（如 "Transformer", "SVM"）：侧重于数学原理和内部机制。
如果是**实际应用场景**（如 "电商推荐系统", "欺诈检测", "自动驾驶"）：侧重于**解决方案分析**。

对于【实际应用场景】的特殊要求：
1. **结构**：
   - 步骤1：**场景与痛点分析** (Visual: 概览图或数据分布)。
   - 步骤2：**数据准备与特征工程** (Visual: 原始数据矩阵或特征相关性图)。
   - 步骤3：**核心算法实现** (Visual: 算法流程图，如双塔模型结构)。
   - 步骤4：**模型训练与优化** (Visual: 损失函数下降或权重更新)。
   - 步骤5：**结果与业务价值总结** (Visual: 预测结果对比或效果提升图)。
2. **可视化建议**：
   - **推荐系统**：使用 MATRIX 展示 用户-物品 评分矩阵，或 FLOW 展示 召回->排序 漏斗。
   - **欺诈检测**：使用 CHART 展示正常交易与异常交易的聚类分布。
   - **RAG/问答**：使用 FLOW 展示 检索 -> 增强 -> 生成 的链路。

通用要求：
1. **深度内容**：description 使用 Markdown 格式，加粗关键点，列表清晰。
2. **微型数据集**：必须构造一个具体的、简化的数据集上下文 (例如：5个用户对5个商品的评分矩阵)。
3. **关键概念 (keyTerms)**：每步提取 2-3 个业务术语或技术术语供用户点击提问。
4. **数据驱动动画**：确保步骤间的 visualData 连贯变化。
5. 节点坐标 x、y 取值 0-100；矩阵每行长度相同。

只返回一个 JSON 对象，不要包含任何其他文字。结构如下：
%s`,

	driven.PromptChatSystem: `你是一位专业的人工智能架构师和导师。
用户当前正在查看以下内容的解释：
%s

回答要求：
1. **角色切换**：如果当前是"实际应用场景"，请以**解决方案架构师**的角度回答，关注业务落地、系统设计和工程挑战。如果是"算法原理"，请以**数学/算法科学家**的角度回答。
2. **Markdown 格式**：使用代码块、粗体、列表，甚至表格。
3. **关联上下文**：引用当前演示的数据集。
4. **通俗易懂**：用类比解释复杂概念（例如：将"Embedding"解释为"在地图上给单词找坐标"）。`,
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.algomaster/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".algomaster", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for name. User files take precedence;
// a missing or unreadable file falls back to the built-in default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		if err == nil {
			err = os.ErrNotExist
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Names returns the well-known prompt names in sorted order.
func (s *PromptStore) Names() []string {
	names := make([]string, 0, len(defaultPrompts))
	for name := range defaultPrompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// initialise creates the prompt directory and seeds default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# AlgoMaster Prompts

Customisable prompts used when generating explanations and answering
tutor questions.

## Files

- ` + "`generate_explanation.txt`" + ` - Builds the explanation document for a topic
- ` + "`chat_system.txt`" + ` - System instruction for the tutor chat

## Customisation

Edit a file to change model behaviour. A running TUI or server picks up
changes automatically; other commands read them on start.

## Format Placeholders

- ` + "`generate_explanation.txt`" + `: first ` + "`%s`" + ` is the topic, second is the JSON shape
- ` + "`chat_system.txt`" + `: ` + "`%s`" + ` is the current step context

Keep the placeholders in place. Delete a file to restore its default.
`
	return os.WriteFile(path, []byte(content), 0600)
}
